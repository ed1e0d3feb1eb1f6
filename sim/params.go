package sim

import (
	"github.com/pthm-cable/gravwalk/camera"
	"github.com/pthm-cable/gravwalk/config"
	"github.com/pthm-cable/gravwalk/gravity"
	"github.com/pthm-cable/gravwalk/ground"
	"github.com/pthm-cable/gravwalk/locomotion"
	"github.com/pthm-cable/gravwalk/session"
)

func gravityParams(cfg *config.Config) gravity.Params {
	return gravity.Params{
		Magnitude:           cfg.Gravity.Magnitude,
		ReorientDuration:    cfg.Gravity.ReorientDuration,
		IgnoreAfterReorient: cfg.Gravity.IgnoreAfterReorient,
		HologramDistance:    cfg.Gravity.HologramDistance,
	}
}

func groundParams(cfg *config.Config) ground.Params {
	return ground.Params{
		Mode:        cfg.Derived.GroundMode,
		Distance:    cfg.Ground.Distance,
		ProbeRadius: cfg.Ground.ProbeRadius,
		Mask:        cfg.Derived.GroundMask,
	}
}

func locomotionParams(cfg *config.Config) locomotion.Params {
	return locomotion.Params{
		MoveSpeed:  cfg.Locomotion.MoveSpeed,
		JumpForce:  cfg.Locomotion.JumpForce,
		SteerRate:  cfg.Locomotion.SteerRate,
		TurnRate:   cfg.Locomotion.TurnRate,
		JumpIgnore: cfg.Locomotion.JumpIgnore,
		Deadzone:   cfg.Locomotion.Deadzone,
	}
}

func cameraParams(cfg *config.Config) camera.Params {
	return camera.Params{
		Distance:    cfg.Camera.Distance,
		Height:      cfg.Camera.Height,
		SmoothSpeed: cfg.Camera.SmoothSpeed,
		Sensitivity: cfg.Camera.Sensitivity,
		PitchMin:    cfg.Camera.PitchMin,
		PitchMax:    cfg.Camera.PitchMax,
		FovY:        cfg.Camera.FovY,
		MinDistance: cfg.Camera.MinDistance,
		MaxDistance: cfg.Camera.MaxDistance,
	}
}

// sessionParams shares the ground mask so the fall check sees what the
// ground probe sees.
func sessionParams(cfg *config.Config) session.Params {
	return session.Params{
		TimeLimit:         cfg.Session.TimeLimit,
		FallCheckDelay:    cfg.Session.FallCheckDelay,
		FallCheckDistance: cfg.Session.FallCheckDistance,
		Mask:              cfg.Derived.GroundMask,
	}
}
