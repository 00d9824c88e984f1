package menu

import (
	"fmt"
	"strings"

	"github.com/jungletek/vms-storage-calc/pkg/estimator"
	"github.com/jungletek/vms-storage-calc/pkg/fleet"
	"github.com/jungletek/vms-storage-calc/pkg/report"
)

func storageForDuration(m *Menu) error {
	bitrate, err := m.askPositive("Enter bitrate (Mbps): ")
	if err != nil {
		return err
	}
	unit, err := m.ask("Enter duration type (days/hours): ")
	if err != nil {
		return err
	}

	switch strings.ToLower(unit) {
	case "days":
		days, err := m.askPositive("Enter duration (days): ")
		if err != nil {
			return err
		}
		quick := estimator.StorageQuick(bitrate, days)
		return m.renderer.Estimate(report.Estimate{
			BitrateMbps: bitrate,
			Duration:    days,
			Unit:        "days",
			ExactGB:     estimator.StorageExact(bitrate, days),
			QuickGB:     &quick,
		})
	case "hours":
		hours, err := m.askPositive("Enter duration (hours): ")
		if err != nil {
			return err
		}
		return m.renderer.Estimate(report.Estimate{
			BitrateMbps: bitrate,
			Duration:    hours,
			Unit:        "hours",
			ExactGB:     estimator.StorageForHours(bitrate, hours),
		})
	default:
		m.println("Invalid duration type. Please enter 'days' or 'hours'.")
		return nil
	}
}

func fpsImpact(m *Menu) error {
	base, err := m.askPositive("Enter base bitrate (Mbps): ")
	if err != nil {
		return err
	}
	reference, err := m.askFloatDefault(fmt.Sprintf("Enter reference FPS (default %g): ", m.opts.ReferenceFPS), m.opts.ReferenceFPS)
	if err != nil {
		return err
	}
	if reference < 0 {
		return fmt.Errorf("%w: reference fps %v is negative", ErrInvalidInput, reference)
	}
	target, err := m.askPositive("Enter new FPS: ")
	if err != nil {
		return err
	}

	impact, err := estimator.CalculateFPSImpact(base, target, reference)
	if err != nil {
		return err
	}
	return m.renderer.FPSImpact(impact)
}

func storageTable(m *Menu) error {
	return m.renderer.StorageTable(estimator.GenerateTable(m.opts.TableBitrates, m.opts.TableDurations))
}

func quickReference(m *Menu) error {
	return m.renderer.QuickReference(estimator.GetQuickReference())
}

func multipleCameras(m *Menu) error {
	m.println("\n[CAMERA] Multiple Cameras Storage Calculation")
	m.println(strings.Repeat("-", separatorWidth))

	count, err := m.askInt("Enter number of cameras: ")
	if err != nil {
		return err
	}
	if count <= 0 {
		m.println("[ERROR] Number of cameras must be positive.")
		return nil
	}
	days, err := m.askPositive("Enter recording duration (days): ")
	if err != nil {
		return err
	}

	m.printf("\nEnter details for %d camera(s):\n", count)
	cameras := make([]estimator.CameraProfile, 0, count)
	for i := 1; i <= count; i++ {
		name := fmt.Sprintf("Cam%d", i)
		m.printf("\nCamera %d:\n  Camera name: %s (auto-generated)\n", i, name)

		bitrate, err := m.askPositive("  Bitrate (Mbps): ")
		if err != nil {
			return err
		}
		fps, err := m.askFloatDefault(fmt.Sprintf("  FPS (default %g): ", m.opts.ReferenceFPS), m.opts.ReferenceFPS)
		if err != nil {
			return err
		}
		hours, err := m.askFloatDefault("  Recording hours per day (default 24): ", fleet.DefaultHoursPerDay)
		if err != nil {
			return err
		}

		cam := estimator.CameraProfile{Name: name, BitrateMbps: bitrate, FPS: fps, HoursPerDay: hours}
		if err := fleet.Validate(i, cam); err != nil {
			return err
		}
		cameras = append(cameras, cam)
	}

	for {
		if err := m.renderer.Fleet(estimator.AggregateFleet(cameras, days)); err != nil {
			return err
		}

		again, err := m.askYes("\nCalculate for different duration? (y/n): ")
		if err != nil || !again {
			return err
		}
		days, err = m.askPositive("Enter new duration (days): ")
		if err != nil {
			return err
		}
	}
}

func exit(m *Menu) error {
	m.println("[EXIT] Goodbye!")
	return errExit
}
