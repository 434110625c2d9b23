package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/addup/internal/display"
	"github.com/fyrsmithlabs/addup/internal/logging"
	"github.com/fyrsmithlabs/addup/internal/numscan"
)

const (
	toolSumNumbers = "sum_numbers"
	toolCheckToken = "check_token"

	// maxCheckTokens bounds a single check_token call.
	maxCheckTokens = 1000
)

var errInvalidInput = errors.New("invalid input")

type sumNumbersInput struct {
	Text         string   `json:"text,omitempty" jsonschema:"Selected text to scan for numbers"`
	Blocks       []string `json:"blocks,omitempty" jsonschema:"Additional selection blocks scanned after text"`
	MaxPrecision *uint32  `json:"max_precision,omitempty" jsonschema:"Significant digits kept; longer numbers are skipped (default from config)"`
	Scientific   *bool    `json:"scientific,omitempty" jsonschema:"Accept exponents such as 7.5E-12 (default from config)"`
}

type sumNumbersOutput struct {
	Summary numscan.Summary `json:"summary" jsonschema:"Counts and the formatted sum"`
	Notices []string        `json:"notices,omitempty" jsonschema:"Notes shown after the sum"`
}

type checkTokenInput struct {
	Tokens     []string `json:"tokens" jsonschema:"Whitespace-free tokens to explain"`
	Scientific *bool    `json:"scientific,omitempty" jsonschema:"Accept exponents (default from config)"`
}

type checkTokenOutput struct {
	Results []display.Check `json:"results" jsonschema:"One verdict per token, in order"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        toolSumNumbers,
		Description: "Sum every number found in selected text. Currency symbols, thousands separators and trailing dashes are understood; anything ambiguous is skipped.",
	}, s.handleSumNumbers)

	mcp.AddTool(s.mcp, &mcp.Tool{
		Name:        toolCheckToken,
		Description: "Explain whether single tokens would be counted by sum_numbers, and why not when they are rejected.",
	}, s.handleCheckToken)
}

func (s *Server) handleSumNumbers(ctx context.Context, req *mcp.CallToolRequest, args sumNumbersInput) (*mcp.CallToolResult, sumNumbersOutput, error) {
	var (
		tokens  int
		toolErr error
	)
	done := s.toolMetric.start(ctx, toolSumNumbers)
	defer func() { done(tokens, toolErr) }()

	blocks := args.Blocks
	if args.Text != "" {
		blocks = append([]string{args.Text}, blocks...)
	}
	if len(blocks) == 0 {
		toolErr = fmt.Errorf("%w: text or blocks is required", errInvalidInput)
		return nil, sumNumbersOutput{}, toolErr
	}

	settings := s.settings
	if args.MaxPrecision != nil {
		settings.MaxPrecision = *args.MaxPrecision
	}
	if args.Scientific != nil {
		settings.Scientific = *args.Scientific
	}

	ctx = logging.WithSource(logging.WithScanID(ctx, ""), sourceName)
	ctx, span := s.tracer.Start(ctx, "mcp."+toolSumNumbers,
		trace.WithAttributes(attribute.Int("scan.blocks", len(blocks))))
	defer span.End()

	opts := []numscan.Option{
		numscan.WithLogger(s.logger.With(zap.String("scan.id", logging.ScanIDFromContext(ctx)))),
		numscan.WithTracer(s.tracer),
	}
	if s.scanMetric != nil {
		opts = append(opts, numscan.WithObserver(s.scanMetric))
	}
	scanner, err := numscan.NewScanner(settings, opts...)
	if err != nil {
		toolErr = err
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid settings")
		return nil, sumNumbersOutput{}, err
	}

	scanStart := time.Now()
	summary, err := scanner.Summarize(ctx, blocks)
	if err != nil {
		toolErr = err
		span.RecordError(err)
		span.SetStatus(codes.Error, "scan aborted")
		s.logger.Warn("scan aborted", zap.Error(err))
		return nil, sumNumbersOutput{}, fmt.Errorf("scan aborted: %w", err)
	}
	tokens = summary.TokenCount
	if s.scanMetric != nil {
		s.scanMetric.RecordScan(sourceName, summary, time.Since(scanStart))
	}

	notices := summary.Notices()
	text := summary.DisplayString
	if len(notices) > 0 {
		text += "\n" + strings.Join(notices, "\n")
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, sumNumbersOutput{Summary: summary, Notices: notices}, nil
}

func (s *Server) handleCheckToken(ctx context.Context, req *mcp.CallToolRequest, args checkTokenInput) (*mcp.CallToolResult, checkTokenOutput, error) {
	var (
		tokens  int
		toolErr error
	)
	done := s.toolMetric.start(ctx, toolCheckToken)
	defer func() { done(tokens, toolErr) }()

	if len(args.Tokens) == 0 {
		toolErr = fmt.Errorf("%w: tokens is required", errInvalidInput)
		return nil, checkTokenOutput{}, toolErr
	}
	if len(args.Tokens) > maxCheckTokens {
		toolErr = fmt.Errorf("%w: at most %d tokens per call", errInvalidInput, maxCheckTokens)
		return nil, checkTokenOutput{}, toolErr
	}

	settings := s.settings
	if args.Scientific != nil {
		settings.Scientific = *args.Scientific
	}
	parser, err := numscan.NewParser(settings)
	if err != nil {
		toolErr = err
		return nil, checkTokenOutput{}, err
	}

	tokens = len(args.Tokens)
	results := make([]display.Check, len(args.Tokens))
	accepted := 0
	for i, tok := range args.Tokens {
		results[i] = display.NewCheck(tok, parser.Parse(tok, nil))
		if results[i].Accepted {
			accepted++
		}
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("%d of %d tokens accepted", accepted, len(results))},
		},
	}, checkTokenOutput{Results: results}, nil
}
