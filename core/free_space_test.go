package core

import (
	"math"
	"testing"

	"github.com/signalsfoundry/lunar-propagation/model"
)

func TestFreeSpaceLossReference(t *testing.T) {
	if got := FreeSpaceLoss(1000, 100); math.Abs(got-72.45) > 1e-9 {
		t.Fatalf("FreeSpaceLoss(1 km, 100 MHz) = %v, want 72.45", got)
	}
}

func TestFreeSpaceLossIncreasing(t *testing.T) {
	prev := FreeSpaceLoss(100, 1000)
	for d := 200.0; d <= 1e6; d *= 2 {
		got := FreeSpaceLoss(d, 1000)
		if got <= prev {
			t.Fatalf("FreeSpaceLoss(%v) = %v, not above %v", d, got, prev)
		}
		prev = got
	}

	prev = FreeSpaceLoss(10e3, 20)
	for f := 40.0; f <= 20000; f *= 2 {
		got := FreeSpaceLoss(10e3, f)
		if got <= prev {
			t.Fatalf("FreeSpaceLoss(f=%v) = %v, not above %v", f, got, prev)
		}
		prev = got
	}
}

func TestGroundImpedanceUnitPermittivityFailsCheck(t *testing.T) {
	zg := GroundImpedance(1000, model.PolarizationHorizontal, 1, 0.01)
	if real(zg) > math.Abs(imag(zg)) {
		t.Fatalf("Z = %v, want Re <= |Im|", zg)
	}
}

func TestGroundImpedanceVerticalScaledByPermittivity(t *testing.T) {
	h := GroundImpedance(1000, model.PolarizationHorizontal, 4, 0.0001)
	v := GroundImpedance(1000, model.PolarizationVertical, 4, 0.0001)
	epR := complex(4, 18000*0.0001/1000)

	if d := h/epR - v; math.Abs(real(d)) > 1e-12 || math.Abs(imag(d)) > 1e-12 {
		t.Fatalf("vertical Z = %v, want %v", v, h/epR)
	}
}
