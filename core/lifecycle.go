package core

// Application is the cooperative program driven by Run. Its interrupt
// handlers are installed separately through InstallVectors.
type Application interface {
	// Init runs once, after every bring-up step succeeded.
	Init()

	// Loop runs forever in normal context. It may call WaitMs.
	Loop()
}

// BringUpStep configures one peripheral collaborator.
type BringUpStep struct {
	Name string
	Run  func() error
}

// BringUpError reports the bring-up step that failed.
type BringUpError struct {
	Step string
	Err  error
}

func (e *BringUpError) Error() string {
	return "bring-up " + e.Step + ": " + e.Err.Error()
}

func (e *BringUpError) Unwrap() error {
	return e.Err
}

var loopFaults uint32

// Run performs the ordered bring-up, calls app.Init once and then calls
// app.Loop forever. It only returns if a bring-up step fails; the
// application never starts in that case.
func Run(steps []BringUpStep, app Application) error {
	if err := bringUp(steps); err != nil {
		return err
	}
	app.Init()
	loop(app, func() bool { return true })
	return nil
}

func bringUp(steps []BringUpStep) error {
	for _, step := range steps {
		if step.Run == nil {
			continue
		}
		if err := step.Run(); err != nil {
			PrintStr("bring-up failed: " + step.Name)
			return &BringUpError{Step: step.Name, Err: err}
		}
	}
	return nil
}

// loop calls app.Loop while keepRunning reports true.
func loop(app Application, keepRunning func() bool) {
	for keepRunning() {
		step(app)
	}
}

// step runs one Loop call. A panic is counted and the loop carries on, the
// same way a watchdog-less main loop would limp on after a fault.
func step(app Application) {
	defer func() {
		if r := recover(); r != nil {
			loopFaults++
			PrintStr("loop fault")
		}
	}()
	app.Loop()
}

// LoopFaults returns the number of recovered Loop panics.
func LoopFaults() uint32 {
	return loopFaults
}
