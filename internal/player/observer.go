package player

// Observer receives playback notifications. Fan-out is synchronous on the
// thread that drove the pipeline; observers must not call back into the
// player from a notification.
type Observer interface {
	OnLoad()
	OnLoadError()
	OnPlay()
	OnPause()
	OnStop()
	OnComplete()
	OnLoop(loopCount uint32)
	OnFrame(frame float32)
	OnRender(frame float32)
}

// BaseObserver is a no-op Observer for embedding; override what you need.
type BaseObserver struct{}

func (BaseObserver) OnLoad()          {}
func (BaseObserver) OnLoadError()     {}
func (BaseObserver) OnPlay()          {}
func (BaseObserver) OnPause()         {}
func (BaseObserver) OnStop()          {}
func (BaseObserver) OnComplete()      {}
func (BaseObserver) OnLoop(uint32)    {}
func (BaseObserver) OnFrame(float32)  {}
func (BaseObserver) OnRender(float32) {}
