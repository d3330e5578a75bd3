package main

import "github.com/unkn0wn-root/tabsettings"

// logTabs stands in for the tab manager and toolbar, which only exist inside
// the browser. It logs what the store asked of them.
type logTabs struct {
	log tabsettings.Logger
}

var (
	_ tabsettings.Scheduler = logTabs{}
	_ tabsettings.Indicator = logTabs{}
)

func (t logTabs) UnscheduleAllTabs()    { t.call("unschedule_all_tabs", nil) }
func (t logTabs) RescheduleAllTabs()    { t.call("reschedule_all_tabs", nil) }
func (t logTabs) ResetMaxExceededTime() { t.call("reset_max_exceeded_time", nil) }
func (t logTabs) ScheduleNextClose()    { t.call("schedule_next_close", nil) }

func (t logTabs) SetBadgeText(text string) {
	t.call("set_badge_text", tabsettings.Fields{"text": text})
}

func (t logTabs) SetIcon(path string) {
	t.call("set_icon", tabsettings.Fields{"path": path})
}

func (t logTabs) call(name string, f tabsettings.Fields) {
	if f == nil {
		f = tabsettings.Fields{}
	}
	f["call"] = name
	t.log.Info("tabs", f)
}
