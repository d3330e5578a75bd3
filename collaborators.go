package tabsettings

// Scheduler is the tab manager side of a settings change. All calls are
// fire-and-forget; the store never waits on or inspects results.
type Scheduler interface {
	UnscheduleAllTabs()
	RescheduleAllTabs()
	ResetMaxExceededTime()
	ScheduleNextClose()
}

// Indicator is the toolbar badge and icon.
type Indicator interface {
	SetBadgeText(text string)
	SetIcon(path string)
}

const (
	DefaultIcon       = "img/icon.png"
	DefaultPausedIcon = "img/icon-paused.png"
)

type NopScheduler struct{}

func (NopScheduler) UnscheduleAllTabs()    {}
func (NopScheduler) RescheduleAllTabs()    {}
func (NopScheduler) ResetMaxExceededTime() {}
func (NopScheduler) ScheduleNextClose()    {}

type NopIndicator struct{}

func (NopIndicator) SetBadgeText(string) {}
func (NopIndicator) SetIcon(string)      {}
