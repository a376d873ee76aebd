package analysis

const shortPromptWords = 5

type issueRule struct {
	issue Issue
	found func(f features, c Complexity) bool
}

// issueRules run in detection order; results keep this order.
var issueRules = []issueRule{
	{
		Issue{"too_short", SeverityHigh, "The prompt is too short to convey a clear request", "Expand the prompt with the goal, the context and the expected output"},
		func(f features, _ Complexity) bool { return f.words < shortPromptWords },
	},
	{
		Issue{"clarity", SeverityMedium, "No clear action verb describes what should be done", "Start with an explicit instruction such as \"Write\", \"Explain\" or \"Analyze\""},
		func(f features, _ Complexity) bool { return !f.actionVerb },
	},
	{
		Issue{"specificity", SeverityMedium, "No constraints or requirements are stated", "Add requirements such as length, scope or quality criteria"},
		func(f features, _ Complexity) bool { return !f.constraints },
	},
	{
		Issue{"context", SeverityLow, "No background or situational context is given", "Describe the situation and any relevant background"},
		func(f features, _ Complexity) bool { return !f.background && !f.contextMarker },
	},
	{
		Issue{"vague_language", SeverityMedium, "Vague words make the request ambiguous", "Replace words like \"something\" or \"stuff\" with concrete terms"},
		func(f features, _ Complexity) bool { return f.vague || f.words == 0 },
	},
	{
		Issue{"examples", SeverityLow, "A complex request has no examples", "Include one or two examples of the desired result"},
		func(f features, c Complexity) bool { return !f.examples && (c.AtLeast(ComplexityComplex) || f.words == 0) },
	},
	{
		Issue{"output_format", SeverityLow, "The expected output format is not specified", "State the format of the answer, for example a list, a table or JSON"},
		func(f features, _ Complexity) bool { return !f.outputFormat },
	},
}

func detectIssues(f features, c Complexity) []Issue {
	issues := []Issue{}
	for _, rule := range issueRules {
		if rule.found(f, c) {
			issues = append(issues, rule.issue)
		}
	}
	return issues
}

// ruleSuggestions holds every suggestion the rules can produce.
var ruleSuggestions = func() map[string]bool {
	m := make(map[string]bool, len(issueRules))
	for _, rule := range issueRules {
		m[rule.issue.Solution] = true
	}
	return m
}()

func suggestionsFor(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Solution)
	}
	return out
}
