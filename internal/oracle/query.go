package oracle

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
)

// QueryPlan is a generated read-only SQL query plus the model's explanation
// of what it retrieves.
type QueryPlan struct {
	SQL         string         `json:"sql"`
	Explanation string         `json:"explanation"`
	Parameters  map[string]any `json:"parameters"`
}

// FallbackQuery is returned whenever generation or the safety guard fails.
const FallbackQuery = "SELECT caption, status FROM cases ORDER BY updated_at DESC LIMIT 10"

// Matched on word boundaries so column names like updated_at or created_at
// pass while bare write verbs do not.
var forbiddenSQL = regexp.MustCompile(`\b(?i:DELETE|DROP|CREATE|INSERT|UPDATE|ALTER|TRUNCATE|GRANT)\b`)

const querySystem = "You are a PostgreSQL query generator for an AI litigation knowledge graph.\n" +
	"Tables:\n" +
	"  cases(id, caption, status, date_filed, jurisdiction_type, area_of_application jsonb, cause_of_action jsonb, algorithm_names jsonb, is_class_action, summary_significance)\n" +
	"  organizations(canonical_name, name)\n" +
	"  ai_systems(name, category)\n" +
	"  legal_theories(name)\n" +
	"  courts(name, jurisdiction_type)\n" +
	"  case_defendants(case_id, canonical_name, roles jsonb, confidence, reviewed_by_human)\n" +
	"  case_systems(case_id, system_name, confidence, reviewed_by_human)\n" +
	"  case_theories(case_id, theory_name)\n" +
	"  case_courts(case_id, court_name)\n\n" +
	"Rules:\n" +
	"- Always LIMIT results to 50 maximum\n" +
	"- Only generate read queries (SELECT/WITH)\n" +
	"- Never use DELETE, DROP, CREATE, INSERT, UPDATE, ALTER, TRUNCATE, GRANT\n" +
	"- Return JSON only, no prose, no markdown: " +
	`{"sql": string, "explanation": string, "parameters": {}}`

// QueryFromQuestion translates a research question into a guarded SQL query.
// Any failure, including a guard trip, yields the fallback plan.
func (o *Oracle) QueryFromQuestion(ctx context.Context, question string) QueryPlan {
	prompt := fmt.Sprintf("Research question: %s\n\nGenerate the SQL query.", question)
	text, err := o.generate(ctx, "nl_query", querySystem, prompt)
	if err == nil {
		var plan QueryPlan
		if perr := extractJSON(text, &plan); perr == nil {
			if gerr := GuardQuery(plan.SQL); gerr == nil {
				if plan.Parameters == nil {
					plan.Parameters = map[string]any{}
				}
				return plan
			} else {
				err = gerr
			}
		} else {
			err = perr
		}
	}
	log.Printf("query generation failed: %v", err)
	return QueryPlan{
		SQL:         FallbackQuery,
		Explanation: "Fallback query; original question could not be parsed.",
		Parameters:  map[string]any{},
	}
}

// GuardQuery rejects any statement carrying a write keyword. The check runs
// on the raw text rather than a parse tree and is deliberately blunt.
func GuardQuery(sql string) error {
	if word := forbiddenSQL.FindString(sql); word != "" {
		return fmt.Errorf("forbidden SQL keyword: %s", strings.ToUpper(word))
	}
	upper := strings.ToUpper(strings.TrimSpace(sql))
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return fmt.Errorf("query must start with SELECT or WITH")
	}
	return nil
}
