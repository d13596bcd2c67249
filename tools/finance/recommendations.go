package finance

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/aidekit/aidekit/chatmodel"
	"github.com/aidekit/aidekit/pkg/llmutils"
	"github.com/aidekit/aidekit/pkg/schema"
	"github.com/aidekit/aidekit/tools"
	"github.com/aidekit/aidekit/tools/finance/internal/yahooclient"
)

// RecommendationsTool reports the latest analyst rating changes for a
// stock symbol.
type RecommendationsTool struct {
	tool
	client *yahooclient.Client
}

var _ tools.Tool[StockRequest, Report] = (*RecommendationsTool)(nil)

// newRecommendations creates the analyst recommendations tool.
func newRecommendations(client *yahooclient.Client) (*RecommendationsTool, error) {
	sc, err := schema.New(reflect.TypeOf(StockRequest{}))
	if err != nil {
		return nil, errors.WithMessage(err, "failed to create schema")
	}
	return &RecommendationsTool{
		tool: tool{
			name:        RecommendationsToolName,
			description: "Get analyst recommendations and ratings for a stock. Use this when users ask about analyst opinions, buy/sell ratings, or investment recommendations.",
			funcParams:  sc.Parameters,
		},
		client: client,
	}, nil
}

// Run fetches the rating history and formats the latest 10 changes.
func (t *RecommendationsTool) Run(ctx context.Context, req *StockRequest) (*Report, error) {
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return nil, errors.New("invalid request: empty symbol")
	}

	history, err := t.client.GradeHistory(ctx, symbol)
	if err != nil {
		return nil, errors.WithMessagef(err, "Error retrieving analyst recommendations for %s", req.Symbol)
	}
	if len(history) == 0 {
		return &Report{
			Symbol: symbol,
			Result: fmt.Sprintf("No analyst recommendations found for %s", symbol),
		}, nil
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].EpochGradeDate < history[j].EpochGradeDate
	})
	if len(history) > 10 {
		history = history[len(history)-10:]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Analyst Recommendations for %s**\n\n", symbol)
	for _, g := range history {
		date := time.Unix(g.EpochGradeDate, 0).UTC().Format("2006-01-02")
		fmt.Fprintf(&b, "- **%s** by %s on %s\n", g.ToGrade, g.Firm, date)
		if g.Action != "" {
			fmt.Fprintf(&b, "  Action: %s\n", g.Action)
		}
		b.WriteString("\n")
	}

	return &Report{Symbol: symbol, Result: b.String()}, nil
}

// Call implements the tools.ITool interface.
func (t *RecommendationsTool) Call(ctx context.Context, input string) (string, error) {
	var req StockRequest
	if err := llmutils.Unmarshal([]byte(input), &req); err != nil {
		return "", chatmodel.ErrFailedUnmarshalInput
	}
	res, err := t.Run(ctx, &req)
	if err != nil {
		return "", err
	}
	return res.GetContent(), nil
}
