// Package boot implements the TamaOS startup sequence: directory
// provisioning and the boot banner.
package boot

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/tamaos/tamaos/internal/config"
)

// EnsureDirs creates the VFS and log roots, including missing ancestors.
// It is idempotent: existing directories are left untouched.
func EnsureDirs(cfg *config.Config) error {
	for _, dir := range []string{cfg.Paths.VFS, cfg.Paths.Logs} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return nil
}

// Banner writes the fixed-format boot report to w. The line format is a
// compatibility contract; change it and every script that greps boot
// output breaks.
func Banner(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "=== TamaOS Boot ===")
	fmt.Fprintf(w, "VFS=%s  LOGS=%s  SKIN=%s\n", cfg.Paths.VFS, cfg.Paths.Logs, cfg.Skin.Mode)
	fmt.Fprintf(w, "CENTURY_REAL_SEC=%s, BURST_CAP_PER_HOUR=%s\n",
		formatFloat(cfg.Device.CenturyRealSec), formatFloat(cfg.Device.BurstCapPerHour))
	fmt.Fprintf(w, "STASIS_FILL_RATE=%s, STASIS_MAX_HOURS=%d\n",
		formatFloat(cfg.Device.StasisFillRate), cfg.Device.StasisMaxHours)
	fmt.Fprintln(w, "OK.")
}

// Ready writes the final readiness line.
func Ready(w io.Writer) {
	fmt.Fprintln(w, "Stub OS ready. Replace with full kernel/devices.")
}

// Run performs the full boot sequence against stdout.
func Run(cfg *config.Config) error {
	if err := EnsureDirs(cfg); err != nil {
		return err
	}
	Banner(os.Stdout, cfg)
	Ready(os.Stdout)
	return nil
}

// formatFloat renders without exponent notation so values like 2592000
// appear verbatim in the banner.
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
