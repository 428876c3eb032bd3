package scenario

import (
	"fmt"
	"io"
	"time"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/samber/mo"
	"github.com/vidtrack/vidtrack/clock"
	"github.com/vidtrack/vidtrack/event"
	"github.com/vidtrack/vidtrack/player"
	"github.com/vidtrack/vidtrack/sim"
	"github.com/vidtrack/vidtrack/tracker"
	lua "github.com/yuin/gopher-lua"
)

// DefaultStep is how far simulated time moves between two timeupdate ticks.
const DefaultStep = 250 * time.Millisecond

// Options configure a runner.
type Options struct {
	Kind    player.Kind
	Tracker tracker.Config

	// Start is the simulated wall time the script begins at.
	Start time.Time

	// Step is the tick granularity of advance. DefaultStep when zero.
	Step time.Duration
}

// Runner owns one simulated player, its adapter and the tracker observing it.
type Runner struct {
	clock   *clock.Virtual
	state   *sim.State
	adapter player.Adapter
	tracker *tracker.Tracker
	step    time.Duration
}

// syncer is implemented by adapters whose cache is refreshed asynchronously.
type syncer interface {
	Sync()
}

// New builds a runner for opts.Kind.
func New(opts Options) (*Runner, error) {
	start := opts.Start
	if start.IsZero() {
		start = time.Now()
	}

	step := opts.Step
	if step <= 0 {
		step = DefaultStep
	}

	c := clock.NewVirtual(start)
	state := sim.New(c)

	adapter, err := state.Adapter(opts.Kind)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		clock:   c,
		state:   state,
		adapter: adapter,
		step:    step,
	}
	r.settle()
	r.tracker = tracker.New(adapter, opts.Tracker, tracker.WithClock(c))

	return r, nil
}

func (r *Runner) Tracker() *tracker.Tracker { return r.tracker }
func (r *Runner) State() *sim.State         { return r.state }
func (r *Runner) Clock() *clock.Virtual     { return r.clock }

// Close destroys the tracker. The simulated player is left as it is.
func (r *Runner) Close() {
	r.tracker.Destroy()
}

// Run executes the script at path.
func (r *Runner) Run(path string) error {
	proto, err := compileFile(path)
	if err != nil {
		return err
	}
	return r.exec(proto)
}

// Exec executes a script read from src. name is used in error messages.
func (r *Runner) Exec(name string, src io.Reader) error {
	proto, err := compile(name, src)
	if err != nil {
		return err
	}
	return r.exec(proto)
}

func (r *Runner) exec(proto *lua.FunctionProto) error {
	L := lua.NewState()
	defer L.Close()

	libs.Preload(L)
	L.SetGlobal("player", r.playerModule(L))
	L.SetGlobal("tracker", r.trackerModule(L))

	return execute(L, proto)
}

// settle waits for adapters that refresh their state in the background.
func (r *Runner) settle() {
	if s, ok := r.adapter.(syncer); ok {
		s.Sync()
	}
}

// advance moves simulated time forward by d, ticking every step.
func (r *Runner) advance(d time.Duration) {
	for d > 0 {
		step := min(r.step, d)
		r.clock.Advance(step)
		r.state.Tick()
		r.settle()
		d -= step
	}
}

func seconds(n lua.LNumber) time.Duration {
	return time.Duration(float64(n) * float64(time.Second))
}

// action wraps a state mutation so the adapter is settled afterwards.
func (r *Runner) action(fn func(L *lua.LState)) lua.LGFunction {
	return func(L *lua.LState) int {
		fn(L)
		r.settle()
		return 0
	}
}

func (r *Runner) playerModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"load": r.action(func(L *lua.LState) {
			r.state.Load(L.CheckString(1), float64(L.CheckNumber(2)))
		}),
		"duration": r.action(func(L *lua.LState) {
			r.state.SetDuration(float64(L.CheckNumber(1)))
		}),
		"play":   r.action(func(*lua.LState) { r.state.Play() }),
		"pause":  r.action(func(*lua.LState) { r.state.Pause() }),
		"stall":  r.action(func(*lua.LState) { r.state.Stall() }),
		"resume": r.action(func(*lua.LState) { r.state.Resume() }),
		"finish": r.action(func(*lua.LState) { r.state.End() }),
		"advance": r.action(func(L *lua.LState) {
			r.advance(seconds(L.CheckNumber(1)))
		}),
		"seek": r.action(func(L *lua.LState) {
			r.state.Seek(float64(L.CheckNumber(1)))
		}),
		"buffer": r.action(func(L *lua.LState) {
			r.state.Stall()
			r.settle()
			r.advance(seconds(L.CheckNumber(1)))
			r.state.Resume()
		}),
		"volume": r.action(func(L *lua.LState) {
			r.state.SetVolume(float64(L.CheckNumber(1)))
		}),
		"mute": r.action(func(L *lua.LState) {
			r.state.SetMuted(L.OptBool(1, true))
		}),
		"fullscreen": r.action(func(L *lua.LState) {
			r.state.SetFullscreen(L.OptBool(1, true))
		}),
		"quality": r.action(func(L *lua.LState) {
			r.state.SetQuality(qualityFromTable(L.CheckTable(1)))
		}),
		"buffered": r.action(func(L *lua.LState) {
			r.state.SetBuffered(rangesFromTable(L.CheckTable(1)))
		}),
		"error": r.action(func(L *lua.LState) {
			r.state.Fail(L.CheckInt(1), L.OptString(2, ""))
		}),
		"state": func(L *lua.LState) int {
			L.Push(snapshotToTable(L, r.adapter))
			return 1
		},
		"now": func(L *lua.LState) int {
			L.Push(lua.LNumber(r.clock.Now().UnixMilli()))
			return 1
		},
	})
}

func (r *Runner) trackerModule(L *lua.LState) *lua.LTable {
	return L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"track": func(L *lua.LState) int {
			typ, err := event.ParseType(L.CheckString(1))
			if err != nil {
				L.ArgError(1, err.Error())
				return 0
			}

			var custom map[string]any
			if table, ok := L.Get(2).(*lua.LTable); ok {
				custom = mapFromTable(table)
			}
			r.tracker.TrackEvent(typ, custom)
			return 0
		},
		"update": func(L *lua.LState) int {
			cfg, err := configFromTable(L.CheckTable(1))
			if err != nil {
				L.ArgError(1, err.Error())
				return 0
			}
			r.tracker.UpdateConfig(cfg)
			return 0
		},
		"restart": func(L *lua.LState) int {
			r.tracker.RestartPolling()
			return 0
		},
		"session": func(L *lua.LState) int {
			L.Push(lua.LString(r.tracker.SessionID()))
			return 1
		},
	})
}

// configFromTable reads the fields a script may change mid-run.
func configFromTable(table *lua.LTable) (tracker.Config, error) {
	var cfg tracker.Config

	var err error
	table.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}

		switch name := k.String(); name {
		case "debug":
			cfg.Debug = mo.Some(lua.LVAsBool(v))
		case "autoTrack":
			cfg.AutoTrack = mo.Some(lua.LVAsBool(v))
		case "interval":
			n, ok := v.(lua.LNumber)
			if !ok {
				err = fmt.Errorf("interval must be a number of seconds")
				return
			}
			cfg.ProgressInterval = mo.Some(seconds(n))
		case "sessionId":
			cfg.SessionID = mo.Some(lua.LVAsString(v))
		case "metadata":
			t, ok := v.(*lua.LTable)
			if !ok {
				err = fmt.Errorf("metadata must be a table")
				return
			}
			cfg.Metadata = mo.Some(mapFromTable(t))
		default:
			err = fmt.Errorf("unknown tracker option %q", name)
		}
	})

	return cfg, err
}
