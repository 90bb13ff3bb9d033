package metrics

const (
	testRatioExcellent = 0.80
	testRatioGood      = 0.50
	testRatioPoor      = 0.20
	testRatioCritical  = 0.10

	// SmellHigh is the score at which a smell costs health points.
	SmellHigh = 0.7

	overEngineeringDensity = 20.0
)

// HealthScore starts at 100 and subtracts independently capped penalties
// computed from m's raw counts. The result is clamped to [0, 100].
func HealthScore(m *CodebaseMetrics) int {
	score := 100

	switch r := m.TestToCodeRatio; {
	case r >= testRatioExcellent:
	case r >= testRatioGood:
		score -= 10
	case r >= testRatioPoor:
		score -= 25
	case r >= testRatioCritical:
		score -= 35
	default:
		score -= 40
	}

	score -= min(20, m.SmellScores.CountAtLeast(SmellHigh)*4)
	score -= min(10, len(m.DuplicateGroups)*2)
	score -= min(10, len(m.LongFunctions))
	score -= min(10, len(m.SensitiveUnhandled)*2)

	switch n := len(m.Todos); {
	case n > 20:
		score -= 5
	case n > 10:
		score -= 3
	case n > 5:
		score -= 1
	}

	if m.SourceLOC > 0 {
		density := float64(m.TotalClasses) / float64(m.SourceLOC) * 1000
		if density > overEngineeringDensity {
			score -= 5
		}
	}

	return max(0, min(100, score))
}
