package core

import (
	"math"
	"path"
	"sort"
	"strings"

	"github.com/Farahprojects/repoaudit/schema"
)

// tierCoefficients holds the linear cost model for one audit tier.
// The estimate is base + sum(count * coefficient) over the fingerprint,
// floored at base; the ceiling applies the tier multiplier on top.
type tierCoefficients struct {
	base        int
	perFile     int
	perFrontend int
	perBackend  int
	perTest     int
	perConfig   int
	perSQL      int
	perEndpoint int
	multiplier  float64
}

var tierModels = map[schema.AuditTier]tierCoefficients{
	schema.QuickTier: {
		base:        3000,
		perFile:     25,
		perBackend:  40,
		perFrontend: 30,
		perTest:     10,
		perConfig:   100,
		perSQL:      60,
		perEndpoint: 20,
		multiplier:  1.10,
	},
	schema.StandardTier: {
		base:        5000,
		perFile:     50,
		perBackend:  80,
		perFrontend: 60,
		perTest:     30,
		perConfig:   200,
		perSQL:      120,
		perEndpoint: 40,
		multiplier:  1.15,
	},
	schema.DeepTier: {
		base:        8000,
		perFile:     90,
		perBackend:  150,
		perFrontend: 110,
		perTest:     60,
		perConfig:   350,
		perSQL:      220,
		perEndpoint: 80,
		multiplier:  1.20,
	},
}

// frameworkMarkers maps well-known build manifests to framework flags.
var frameworkMarkers = map[string]string{
	"package.json":       "node",
	"go.mod":             "go",
	"cargo.toml":         "rust",
	"requirements.txt":   "python",
	"pyproject.toml":     "python",
	"pom.xml":            "java",
	"build.gradle":       "java",
	"gemfile":            "ruby",
	"composer.json":      "php",
	"pubspec.yaml":       "flutter",
	"next.config.js":     "nextjs",
	"next.config.mjs":    "nextjs",
	"vite.config.ts":     "vite",
	"docker-compose.yml": "docker",
	"dockerfile":         "docker",
}

// routeFolders flags path segments that usually hold HTTP handlers.
var routeFolders = map[string]bool{
	"api":         true,
	"routes":      true,
	"handlers":    true,
	"controllers": true,
	"endpoints":   true,
	"functions":   true,
}

// Fingerprint derives a ComplexityFingerprint from the manifest. The
// fingerprint is a pure function of manifest paths and sizes; it never
// reads file content.
func Fingerprint(m *schema.Manifest) schema.ComplexityFingerprint {
	fp := schema.ComplexityFingerprint{FileCount: len(m.Files)}
	flags := make(map[string]bool)

	for _, f := range m.Files {
		fp.TotalBytes += f.ByteSize
		fp.TokenEstimate += f.TokenEstimate

		switch schema.ClassifyPath(f.Path) {
		case schema.ClassFrontend:
			fp.FrontendFiles++
		case schema.ClassBackend:
			fp.BackendFiles++
		case schema.ClassTest:
			fp.TestFiles++
		case schema.ClassConfig:
			fp.ConfigFiles++
		case schema.ClassSQL:
			fp.SQLFiles++
		}

		base := strings.ToLower(path.Base(f.Path))
		if flag, ok := frameworkMarkers[base]; ok {
			flags[flag] = true
		}
		if isRouteFile(f.Path) {
			// Rough heuristic: a route file averages a few endpoints.
			fp.APIEndpointsEstimated += 3
		}
	}

	fp.FrameworkFlags = sortedFlags(flags)
	return fp
}

// isRouteFile reports whether any path segment looks like a routing folder.
func isRouteFile(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if routeFolders[strings.ToLower(seg)] {
			return true
		}
	}
	return false
}

func sortedFlags(flags map[string]bool) []string {
	if len(flags) == 0 {
		return nil
	}
	out := make([]string, 0, len(flags))
	for f := range flags {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// EstimateCost quotes an audit run for the given fingerprint and tier.
// The estimate is linear in the fingerprint counts, never drops below the
// tier base, and the ceiling applies the tier multiplier to absorb
// variance in LLM verbosity.
func EstimateCost(fp schema.ComplexityFingerprint, tier schema.AuditTier) schema.CostEstimate {
	model, ok := tierModels[tier]
	if !ok {
		model = tierModels[schema.StandardTier]
		tier = schema.StandardTier
	}

	estimate := model.base +
		fp.FileCount*model.perFile +
		fp.FrontendFiles*model.perFrontend +
		fp.BackendFiles*model.perBackend +
		fp.TestFiles*model.perTest +
		fp.ConfigFiles*model.perConfig +
		fp.SQLFiles*model.perSQL +
		fp.APIEndpointsEstimated*model.perEndpoint

	if estimate < model.base {
		estimate = model.base
	}

	return schema.CostEstimate{
		Tier:            tier,
		EstimatedTokens: estimate,
		TokenCeiling:    int(math.Ceil(float64(estimate) * model.multiplier)),
	}
}

// DeviationExceeded reports whether the declared token count strays more
// than 50% from the computed estimate. A deviation flags the run for
// review; it never blocks execution. A zero declaration means the caller
// declared nothing, which is not a deviation.
func DeviationExceeded(declared, estimated int) bool {
	if declared <= 0 || estimated <= 0 {
		return false
	}
	diff := math.Abs(float64(declared - estimated))
	return diff/float64(estimated) > 0.5
}
