package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/poiesic/guidex/core"
)

// SearchInput is the input schema for the search_rules tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"natural-language description of the rule to find"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results (default 10, max 50)"`
}

// SearchOutput is the output schema for the search_rules tool.
type SearchOutput struct {
	Results []core.SearchResult `json:"results"`
	Count   int                 `json:"count"`
}

// GetRuleInput is the input schema for the get_rule tool.
type GetRuleInput struct {
	RuleID string `json:"rule_id" jsonschema:"rule identifier, e.g. P.1 or SL.con.1"`
}

// GetRuleOutput is the output schema for the get_rule tool.
type GetRuleOutput struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Markdown string `json:"markdown"`
}

// ListCategoryInput is the input schema for the list_category tool.
type ListCategoryInput struct {
	Category string `json:"category" jsonschema:"category key, e.g. P or ES"`
}

// ListCategoryOutput is the output schema for the list_category tool.
type ListCategoryOutput struct {
	Key   string        `json:"key"`
	Name  string        `json:"name"`
	Count int           `json:"count"`
	Rules []RuleSummary `json:"rules"`
}

// RuleSummary is one entry in a category listing.
type RuleSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// UpdateOutput is the output schema for the update_rulebook tool.
type UpdateOutput struct {
	Updated       bool   `json:"updated"`
	Revision      string `json:"revision"`
	DocumentCount int    `json:"document_count,omitempty"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_rules",
		Description: "Semantic search over the rulebook",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_rule",
		Description: "Fetch a single rule by its identifier",
	}, s.handleGetRule)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_category",
		Description: "List the rules of one category",
	}, s.handleListCategory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "update_rulebook",
		Description: "Re-index the rulebook if the corpus changed",
	}, s.handleUpdate)
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest,
	input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {

	results, err := s.engine.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	return nil, SearchOutput{Results: results, Count: len(results)}, nil
}

func (s *Server) handleGetRule(ctx context.Context, _ *mcp.CallToolRequest,
	input GetRuleInput) (*mcp.CallToolResult, GetRuleOutput, error) {

	doc, err := s.engine.GetDocument(ctx, input.RuleID)
	if err != nil {
		return nil, GetRuleOutput{}, err
	}
	return nil, GetRuleOutput{
		ID:       doc.ID,
		Title:    doc.Title,
		Category: doc.Category,
		Markdown: doc.RawMarkdown,
	}, nil
}

func (s *Server) handleListCategory(ctx context.Context, _ *mcp.CallToolRequest,
	input ListCategoryInput) (*mcp.CallToolResult, ListCategoryOutput, error) {

	category, docs, err := s.engine.ListCategory(ctx, input.Category)
	if err != nil {
		return nil, ListCategoryOutput{}, err
	}

	rules := make([]RuleSummary, len(docs))
	for i, doc := range docs {
		rules[i] = RuleSummary{ID: doc.ID, Title: doc.Title}
	}
	return nil, ListCategoryOutput{
		Key:   category.Key,
		Name:  category.Name,
		Count: category.DocumentCount,
		Rules: rules,
	}, nil
}

func (s *Server) handleUpdate(ctx context.Context, _ *mcp.CallToolRequest,
	_ struct{}) (*mcp.CallToolResult, UpdateOutput, error) {

	result, snapshot, err := s.updater.Update(ctx)
	if err != nil {
		return nil, UpdateOutput{}, err
	}
	if snapshot != nil {
		s.snapshot.Store(snapshot)
	}
	return nil, UpdateOutput{
		Updated:       result.Updated,
		Revision:      result.Revision,
		DocumentCount: result.DocumentCount,
	}, nil
}
