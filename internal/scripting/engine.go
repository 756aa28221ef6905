package scripting

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// Engine wraps a single gopher-lua VM for balance formula execution.
// Single-goroutine access only (simulation loop). Every hook is a pure
// function of its inputs so scripted formulas keep the tick deterministic.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger
}

// NewEngine creates a Lua engine and loads all scripts from the given
// directory. A missing directory is fine: every hook has a built-in
// fallback formula.
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{
		SkipOpenLibs: false,
	})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	if err := e.loadDir(filepath.Join(scriptsDir, "balance")); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load balance scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) Close() {
	e.vm.Close()
}

// loadDir loads all .lua files in a directory.
func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// AimContext holds pre-packed data for an accuracy roll.
type AimContext struct {
	Distance     float64 // shooter-to-target distance
	MaxRange     float64 // weapon maximum range
	TargetSpeed  float64 // target velocity magnitude
	Accuracy     float64 // weapon base accuracy [0,1]
	TargetChaffed bool   // target guidance degraded by chaff
}

// AimQuality returns the hit probability for a shot. Scripted as
// aim_quality(distance, max_range, target_speed, accuracy, chaffed).
func (e *Engine) AimQuality(ctx AimContext) float64 {
	if fn := e.vm.GetGlobal("aim_quality"); fn.Type() == lua.LTFunction {
		err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
			lua.LNumber(ctx.Distance), lua.LNumber(ctx.MaxRange),
			lua.LNumber(ctx.TargetSpeed), lua.LNumber(ctx.Accuracy),
			lua.LBool(ctx.TargetChaffed))
		if err == nil {
			ret := e.vm.Get(-1)
			e.vm.Pop(1)
			if n, ok := ret.(lua.LNumber); ok {
				return clamp01(float64(n))
			}
		} else {
			e.log.Warn("aim_quality script failed", zap.Error(err))
		}
	}
	return fallbackAimQuality(ctx)
}

// fallbackAimQuality: accuracy falls off linearly past half range and with
// target speed; chaff halves the result.
func fallbackAimQuality(ctx AimContext) float64 {
	q := ctx.Accuracy
	if ctx.MaxRange > 0 && ctx.Distance > ctx.MaxRange/2 {
		q *= 1 - (ctx.Distance-ctx.MaxRange/2)/(ctx.MaxRange/2)*0.5
	}
	q *= 1 / (1 + ctx.TargetSpeed/1000)
	if ctx.TargetChaffed {
		q *= 0.5
	}
	return clamp01(q)
}

// OverheatDamage returns module damage per second for a given heat overload
// ratio (heat/capacity, > 1 while overheating). Scripted as
// overheat_damage(ratio, base_rate).
func (e *Engine) OverheatDamage(ratio, baseRate float64) float64 {
	if fn := e.vm.GetGlobal("overheat_damage"); fn.Type() == lua.LTFunction {
		err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
			lua.LNumber(ratio), lua.LNumber(baseRate))
		if err == nil {
			ret := e.vm.Get(-1)
			e.vm.Pop(1)
			if n, ok := ret.(lua.LNumber); ok {
				return math.Max(0, float64(n))
			}
		} else {
			e.log.Warn("overheat_damage script failed", zap.Error(err))
		}
	}
	// Damage scales with how far past capacity the ship is running.
	return baseRate * math.Max(0, ratio-1)
}

// InterceptContext holds pre-packed data for a point-defense roll.
type InterceptContext struct {
	Distance   float64
	Range      float64
	BaseChance float64
	TargetSpeed float64
	Torpedo    bool
}

// InterceptChance returns the probability of a point-defense interception.
// Scripted as intercept_chance(distance, range, base, speed, is_torpedo).
func (e *Engine) InterceptChance(ctx InterceptContext) float64 {
	if fn := e.vm.GetGlobal("intercept_chance"); fn.Type() == lua.LTFunction {
		err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
			lua.LNumber(ctx.Distance), lua.LNumber(ctx.Range),
			lua.LNumber(ctx.BaseChance), lua.LNumber(ctx.TargetSpeed),
			lua.LBool(ctx.Torpedo))
		if err == nil {
			ret := e.vm.Get(-1)
			e.vm.Pop(1)
			if n, ok := ret.(lua.LNumber); ok {
				return clamp01(float64(n))
			}
		} else {
			e.log.Warn("intercept_chance script failed", zap.Error(err))
		}
	}
	return fallbackInterceptChance(ctx)
}

// fallbackInterceptChance: chance decays with distance; slow torpedos are
// easier to hit than missiles.
func fallbackInterceptChance(ctx InterceptContext) float64 {
	p := ctx.BaseChance
	if ctx.Range > 0 {
		p *= 1 - ctx.Distance/ctx.Range*0.5
	}
	if ctx.Torpedo {
		p *= 1.3
	}
	p *= 1 / (1 + ctx.TargetSpeed/2000)
	return clamp01(p)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
