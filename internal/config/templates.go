package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Trade Journal Configuration

[account]
# Account balance used for position sizing and the equity curve
balance = 10000.0

[risk]
# Sizing strategy: "FixedPercent" or "AntiMartingale"
strategy = "FixedPercent"

[risk.fixed_percent]
# Risk percent per trade
risk = 1.0

[risk.anti_martingale]
# Starting risk percent
base_risk = 0.5
# Percent added per consecutive win
increment = 0.25
# Hard ceiling regardless of streak length
max_risk = 2.0

[notifications]
# Master switch: disabling it never suppresses alert transitions,
# only delivery of the notification itself
enabled = true
price_alerts = true
news_alerts = true

[scheduler]
# Alert evaluation interval (e.g. "5s", "30s")
interval = "5s"

[logging]
# Log level: debug, info, warn, error
level = "info"
`

// writeTemplateConfig writes a commented starter config on first run.
func writeTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if _, err := os.Stat(path); err == nil {
		return nil
	}

	if err := os.WriteFile(path, []byte(configTemplate), 0o644); err != nil {
		return fmt.Errorf("writing template config: %w", err)
	}
	return nil
}
