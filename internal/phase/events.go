package phase

// Events receives notifications from the phase controller and engine. The
// core has no opinion about how events are displayed; the TUI and CLI attach
// their own sinks.
type Events interface {
	OnPhaseChange(group int, from, to Phase)
	OnPatternChange(group int, name string)
	OnTextCommitted(group int, text string)
}

// NopEvents discards everything.
type NopEvents struct{}

func (NopEvents) OnPhaseChange(int, Phase, Phase) {}
func (NopEvents) OnPatternChange(int, string)     {}
func (NopEvents) OnTextCommitted(int, string)     {}
