package agent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/rebalance"
	"github.com/etnz/rebalance/docs"
	"github.com/etnz/rebalance/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name: "Facilitator",
		// Used by facilitators to know what they can expect from the expert
		Description: ``,
		ModelName:   model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand his portfolio holdings, how far they drift
			from his target allocation, and what trades a rebalance would involve, including
			the wash-sale consequences of selling at a loss.

			Devise a plan of questions to ask to each expert and come up with the best response
			to the user's request.

			The user will assume that you know about his tickers and asset classes; check the
			portfolio first to understand what they are.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst returns the market expert, grounded with Google Search.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is an expert market analyst,
		very well aware of financial products, funds, index trackers and institutions,
		and of the latest news about them.
		Ask the Analyst whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert market analyst. You can search and find about anything related to
			financial institutions, companies, markets, funds and index trackers. You leverage
			Google Search to ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewPlanner returns the expert in charge of the user's portfolio store.
func NewPlanner() *Expert {

	lib := []Function{Holdings, Plan}

	return &Expert{
		Name: "Planner",
		Description: `This is the Planner. He is in charge of reading the user's portfolio store.
		He can report the current holdings per asset class and compute the tax-aware trade plan
		toward the user's target allocation, including wash-sale annotations.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are in charge of the user's portfolio store.
				You know how to use the Tools to extract relevant information about the user's
				holdings and the trades a rebalance would involve.
				You are part of a team of experts, yours is everything stored in the user's
				portfolio. They might ask you questions with approximative language, pardon
				them and figure out what they meant.

				Use the available tools to get information about the user's portfolio
				  - holdings per asset class, with the per-lot detail
				  - the trade plan toward the target allocation, with wash-sale warnings
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func errResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

// Holdings reports the portfolio holdings grouped by asset class.
var Holdings = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Holdings",
		Description: `Holdings reports the current portfolio grouped by asset class:
		present value, cost basis and unrealized gain per class, with the per-lot detail
		in liquidation order (losses first).`,
		Parameters: &genai.Schema{
			Type:       genai.TypeObject,
			Properties: map[string]*genai.Schema{},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted holdings report, one section per asset class.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		store, err := DecodeStore()
		if err != nil {
			return errResponse(id, "Holdings", err)
		}
		summaries := rebalance.AssetSummaryMap(store.Lots, store.SecurityMap())
		return &genai.FunctionResponse{
			ID:   id,
			Name: "Holdings",
			Response: map[string]any{
				"output": renderer.HoldingsMarkdown(summaries),
			},
		}
	},
}

// Plan computes the tax-aware trade plan toward the target allocation.
var Plan = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Plan",
		Description: `Plan computes the trades that move the portfolio toward the target
		allocation declared in the store: deltas per asset class, netted pairs, the lots to
		sell with wash-sale annotations, and the purchases in priority order.

		` + must(docs.GetTopic("rebalance")),
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"date": {
					Type: genai.TypeString,
					Description: `Cutoff date for the wash-sale lookback. Today is the default.
					Otherwise it uses YYYY-MM-DD or a relative offset like "-30d".`,
				},
			},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted trade plan with deltas, sales, purchases and warnings.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		cutoff, err := parseDate(args)
		if err != nil {
			return errResponse(id, "Plan", err)
		}
		store, err := DecodeStore()
		if err != nil {
			return errResponse(id, "Plan", err)
		}
		plan, err := rebalance.BuildPlan(store, rebalance.PlanOptions{Cutoff: cutoff})
		if err != nil {
			return errResponse(id, "Plan", fmt.Errorf("could not build plan: %w", err))
		}
		return &genai.FunctionResponse{
			ID:   id,
			Name: "Plan",
			Response: map[string]any{
				"output": renderer.PlanMarkdown(plan),
			},
		}
	},
}

// DecodeStore decodes the store from the application's default store file.
// If the file does not exist, it returns a new empty store.
func DecodeStore() (*rebalance.Store, error) {
	storeFile := "portfolio.jsonl"
	// temp
	f, err := os.Open(storeFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &rebalance.Store{}, nil
		}
		return nil, fmt.Errorf("could not open store file %q: %w", storeFile, err)
	}
	defer f.Close()

	store, err := rebalance.DecodeStore(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode store file %q: %w", storeFile, err)
	}
	return store, nil
}

func parseDate(args map[string]any) (rebalance.Date, error) {
	idate, hasDate := args["date"]
	if !hasDate {
		return rebalance.Today(), nil
	}
	sdate, ok := idate.(string)
	if !ok {
		return rebalance.Today(), fmt.Errorf("argument 'date' is not a string as expected but %T", idate)
	}

	date, err := rebalance.ParseDate(sdate)
	if err != nil {
		return rebalance.Today(), fmt.Errorf("argument 'date' must be a valid date got %q: %w", sdate, err)
	}

	return date, nil
}
