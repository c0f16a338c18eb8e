package core

import (
	"sort"

	"github.com/samber/lo"
)

// TargetModels are always shown when the service reports them.
var TargetModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-pro",
	"gemini-2.0-flash",
	"gemini-1.5-flash",
	"gemini-1.5-pro",
	GlobalModel,
}

var (
	mainlineFamily = containsAny("gemini-2.5", "gemini-2.0", "gemini-1.5")
	variantModel   = containsAny("exp", "preview", "audio", "image", "tts", "robotics")
)

// FilterModels sorts names and keeps target models plus mainline family
// variants. It never adds names that were not passed in.
func FilterModels(names []string) []string {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)
	return lo.Filter(sorted, func(name string, _ int) bool {
		return lo.Contains(TargetModels, name) || (mainlineFamily(name) && !variantModel(name))
	})
}
