package dataset

// LegacyRoundColumn is the historical name of the search_round column.
const LegacyRoundColumn = "search_id"

// headerMigration rewrites a dataset header from an older schema. Each
// migration must be idempotent; they run in order on every read.
type headerMigration struct {
	name  string
	apply func(header []string) []string
}

// headerMigrations is the chain of known schema upgrades, oldest first.
// Adding a migration here is the supported way to absorb a schema change;
// readers never special-case old names inline.
var headerMigrations = []headerMigration{
	{name: "rename search_id to search_round", apply: renameLegacyRound},
}

// MigrateHeader upgrades a header read from disk to the current schema.
func MigrateHeader(header []string) []string {
	out := append([]string{}, header...)
	for _, m := range headerMigrations {
		out = m.apply(out)
	}
	return out
}

func renameLegacyRound(header []string) []string {
	hasCurrent := false
	for _, c := range header {
		if c == "search_round" {
			hasCurrent = true
		}
	}
	if hasCurrent {
		return header
	}
	for i, c := range header {
		if c == LegacyRoundColumn {
			header[i] = "search_round"
		}
	}
	return header
}
