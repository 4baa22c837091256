// Package cleaning implements the standardization pipeline for per-ticker
// price datasets: date normalization, numeric coercion, gap filling,
// IQR outlier removal and canonical column naming.
package cleaning

import (
	"log/slog"
	"strings"

	"sipafcli/internal/dataset"
)

// Canonical column roles. The Spanish names are the pipeline's wire format:
// every downstream artifact (precios_limpios.csv, the indicator stage) keys
// off them.
const (
	RoleDate     = "fecha"
	RoleOpen     = "apertura"
	RoleHigh     = "maximo"
	RoleLow      = "minimo"
	RoleClose    = "cierre"
	RoleAdjClose = "cierre_ajustado"
	RoleVolume   = "volumen"
)

// columnRule maps a raw column name to a canonical role by substring match.
type columnRule struct {
	role  string
	match func(string) bool
}

func contains(subs ...string) func(string) bool {
	return func(name string) bool {
		for _, s := range subs {
			if strings.Contains(name, s) {
				return true
			}
		}
		return false
	}
}

// Ordered: first matching rule wins. "adj" is checked before "close" so
// "Adj Close" cannot collide with "Close".
var columnRules = []columnRule{
	{RoleOpen, contains("open")},
	{RoleHigh, contains("high")},
	{RoleLow, contains("low")},
	{RoleAdjClose, contains("adj")},
	{RoleClose, contains("close")},
	{RoleVolume, contains("vol")},
	{RoleDate, contains("date", "fecha", "time", "period")},
}

// ClassifyColumn returns the canonical role for a raw column name, or "" when
// no rule matches.
func ClassifyColumn(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for _, rule := range columnRules {
		if rule.match(normalized) {
			return rule.role
		}
	}
	return ""
}

// StandardizeColumns renames dataset columns to their canonical roles.
// Columns matching no rule keep their names. When two raw columns map to the
// same role the first keeps the role and the collision is reported; the later
// column keeps its original name so no data is silently shadowed.
func StandardizeColumns(d *dataset.Dataset, logger *slog.Logger) {
	assigned := make(map[string]string) // role -> raw column that claimed it
	for _, col := range d.Columns {
		role := ClassifyColumn(col)
		if role == "" {
			continue
		}
		if role == col {
			// Already canonical: claims the role.
			assigned[role] = col
			continue
		}
		if prev, taken := assigned[role]; taken {
			logger.Warn("column role collision, keeping original name",
				slog.String("column", col),
				slog.String("role", role),
				slog.String("claimed_by", prev))
			continue
		}
		if d.HasColumn(role) {
			// A column already carries the canonical name itself.
			assigned[role] = role
			logger.Warn("column role collision, keeping original name",
				slog.String("column", col),
				slog.String("role", role),
				slog.String("claimed_by", role))
			continue
		}
		assigned[role] = col
		d.RenameColumn(col, role)
	}
}
