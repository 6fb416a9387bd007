package report

import (
	"context"
	"fmt"
	"strings"

	"supplement-catalog/domain"
	"supplement-catalog/internal/ctxlog"
	"supplement-catalog/internal/utils/mailing"
)

type (
	// ReportService renders a publish run into an operator-readable summary
	// and mails it to the maintainer address when one is configured.
	ReportService interface {
		Summary(summary domain.PublishSummary) string
		Notify(ctx context.Context, summary domain.PublishSummary) error
	}

	reportService struct {
		recipient string
	}
)

func NewReportService(recipient string) ReportService {
	return &reportService{recipient: recipient}
}

func (s *reportService) Summary(summary domain.PublishSummary) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Publish run %s (region %s)\n", summary.RunID, summary.Region)
	fmt.Fprintf(&b, "published: %d, skipped: %d, failed: %d\n",
		summary.Published, summary.Skipped, summary.Failed)

	for _, result := range summary.Results {
		if result.Status != domain.PublishStatusFailed {
			continue
		}
		fmt.Fprintf(&b, "\nFAILED %s: %s\n", result.SampleID, result.Reason)
		for _, violation := range result.Reports {
			fmt.Fprintf(&b, "  - %s: %s (%s)\n", violation.Field, violation.Detail, violation.Kind)
		}
	}
	return b.String()
}

func (s *reportService) Notify(ctx context.Context, summary domain.PublishSummary) error {
	if s.recipient == "" {
		ctxlog.FromContext(ctx).Debug("no report recipient configured, skipping mail")
		return nil
	}

	subject := fmt.Sprintf("[catalog] publish run %s: %d published, %d failed",
		summary.RunID, summary.Published, summary.Failed)
	return mailing.SendMail(s.recipient, subject, s.Summary(summary))
}
