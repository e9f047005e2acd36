package report

import "context"

type ReportService interface {
	Submit(ctx context.Context, req SubmitReportRequest) (ReportResponse, error)
	Get(ctx context.Context, id string) (ReportResponse, error)
	List(ctx context.Context, filter ReportFilter) (ListReportResponse, error)
	Update(ctx context.Context, id string, req UpdateReportRequest) (ReportResponse, error)
	Delete(ctx context.Context, id string) error
	Approve(ctx context.Context, id string) (ReportResponse, error)
}
