package cli

import "github.com/urfave/cli/v3"

// joinFlags merges the flag sets of several config sections. A flag whose
// name or alias is already taken is dropped, first one wins, since urfave/cli
// refuses duplicate names at startup.
func joinFlags(sets ...[]cli.Flag) []cli.Flag {
	seen := make(map[string]struct{})
	var merged []cli.Flag

	for _, set := range sets {
	next:
		for _, f := range set {
			for _, name := range f.Names() {
				if _, ok := seen[name]; ok {
					continue next
				}
			}
			for _, name := range f.Names() {
				seen[name] = struct{}{}
			}
			merged = append(merged, f)
		}
	}
	return merged
}
