package newsfeed

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/aidekit/aidekit/tools"
	"github.com/aidekit/aidekit/tools/internal/tavilysearch"
)

// CompanyRequest is the input of the company news tool.
type CompanyRequest struct {
	Company string `json:"company" yaml:"company" jsonschema:"title=Company,description=The company name to search news for."`
}

// CompanyNewsTool searches for news about a specific company. The
// query is scoped to the current month.
type CompanyNewsTool struct {
	tool
	client *tavilysearch.Client
}

var _ tools.Tool[CompanyRequest, Report] = (*CompanyNewsTool)(nil)

// newCompanyNews creates the company news tool.
func newCompanyNews(client *tavilysearch.Client) (*CompanyNewsTool, error) {
	sc, err := schema.New(reflect.TypeOf(CompanyRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &CompanyNewsTool{
		tool: tool{
			name:        CompanyNewsToolName,
			description: "Search for news about a specific company. Use this when users ask for company news, corporate updates, or business developments.",
			funcParams:  sc.Parameters,
		},
		client: client,
	}, nil
}

// Run searches for company news and formats the dated article list.
func (t *CompanyNewsTool) Run(ctx context.Context, req *CompanyRequest) (*Report, error) {
	company := strings.TrimSpace(req.Company)
	if company == "" {
		return nil, errors.New("invalid request: empty company")
	}

	query := fmt.Sprintf("%s company news %s", company, time.Now().Format("2006-01"))
	results, err := t.client.Search(ctx, query, DefaultMaxResults)
	if err != nil {
		return nil, errors.WithMessage(err, "Error searching for company news")
	}
	if len(results) == 0 {
		return &Report{
			Topic:  company,
			Result: fmt.Sprintf("No recent news found for %s. Try checking the company name or searching for a different term.", company),
		}, nil
	}

	header := fmt.Sprintf("**%s News - %s**\n", company, time.Now().Format("2006-01-02"))
	return &Report{Topic: company, Result: header + formatArticles("Company News", results)}, nil
}

// Call implements the tools.ITool interface.
func (t *CompanyNewsTool) Call(ctx context.Context, input string) (string, error) {
	var req CompanyRequest
	if err := llmutils.Unmarshal([]byte(input), &req); err != nil {
		return "", chatmodel.ErrFailedUnmarshalInput
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}
