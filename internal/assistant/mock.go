package assistant

import "strings"

// The mock responders are prioritized lists of (predicate, fixed response)
// pairs evaluated top to bottom over the lower-cased question, default case
// last. They are total and deterministic.

const defaultMockSQL = "SELECT * FROM trips LIMIT 10"

var mockSQLRules = []struct {
	match func(q string) bool
	sql   string
}{
	{
		func(q string) bool { return strings.Contains(q, "revenue") && strings.Contains(q, "day") },
		"SELECT pickup_day, SUM(total_amount) as revenue FROM trips GROUP BY pickup_day ORDER BY pickup_day",
	},
	{
		func(q string) bool { return strings.Contains(q, "highest") && strings.Contains(q, "revenue") },
		"SELECT pickup_day, SUM(total_amount) as revenue FROM trips GROUP BY 1 ORDER BY 2 DESC LIMIT 1",
	},
	{
		func(q string) bool { return strings.Contains(q, "average fare") },
		"SELECT AVG(fare_amount) as avg_fare FROM trips",
	},
	{
		func(q string) bool { return strings.Contains(q, "count") },
		"SELECT COUNT(*) FROM trips",
	},
	{
		func(q string) bool { return strings.Contains(q, "peak") || strings.Contains(q, "busy") },
		"SELECT pickup_hour, COUNT(*) as trips FROM trips GROUP BY pickup_hour ORDER BY trips DESC LIMIT 5",
	},
}

func mockSQL(question string) string {
	q := strings.ToLower(question)
	for _, rule := range mockSQLRules {
		if rule.match(q) {
			return rule.sql
		}
	}
	return defaultMockSQL
}

const defaultMockInsight = "**📊 Data Insight**: Average trip is 2.5 miles in 12 minutes. Manhattan dominates pickups. Primary use: short urban mobility."

var mockInsightRules = []struct {
	match  func(q string) bool
	answer string
}{
	{
		func(q string) bool { return strings.Contains(q, "revenue") },
		"**📈 Revenue Insight**: Weekend evenings (Fri-Sat 6-10 PM) generate 25% more revenue. Dynamic pricing during peak hours recommended.",
	},
	{
		func(q string) bool {
			return strings.Contains(q, "demand") || strings.Contains(q, "busy") || strings.Contains(q, "peak")
		},
		"**🚦 Demand Insight**: Peak hours are 8-9:30 AM and 5-7 PM on weekdays. Midtown Manhattan has highest density.",
	},
	{
		func(q string) bool { return strings.Contains(q, "fare") || strings.Contains(q, "price") },
		"**💵 Fare Insight**: Average fare is $12.50. Long trips (>5 mi) generate 3x revenue. Card tips average 18%.",
	},
}

func mockInsight(question string) string {
	q := strings.ToLower(question)
	for _, rule := range mockInsightRules {
		if rule.match(q) {
			return rule.answer
		}
	}
	return defaultMockInsight
}
