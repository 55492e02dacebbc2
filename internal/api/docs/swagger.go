package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// ErrorData is the machine-readable failure kind
type ErrorData struct {
	Code    string `json:"code" example:"NO_FACE_DETECTED"`
	Message string `json:"message" example:"No face detected in the image"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error ErrorData `json:"error"`
}

// UploadResponse represents the recognition result, one entry per detected face
type UploadResponse struct {
	Results []string   `json:"results" example:"alice,Unknown"`
	Error   *ErrorData `json:"error,omitempty"`
}

// RegisterResponse represents the registration result
type RegisterResponse struct {
	Success bool       `json:"success" example:"true"`
	Message string     `json:"message" example:"Registered alice"`
	Error   *ErrorData `json:"error,omitempty"`
}

// SummaryRowData is one person's day
type SummaryRowData struct {
	Name        string `json:"name" example:"alice"`
	CheckIn     string `json:"check_in" example:"2024-03-04 08:00:00"`
	CheckOut    string `json:"check_out" example:"2024-03-04 17:00:00"`
	WorkingTime string `json:"working_time" example:"08:00:00"`
}

// SummaryResponse represents the summary rows of a day
type SummaryResponse struct {
	Date string           `json:"date" example:"2024-03-04"`
	Rows []SummaryRowData `json:"rows"`
}

// GalleryResponse lists the registered names
type GalleryResponse struct {
	Names []string `json:"names" example:"alice,bob"`
	Count int      `json:"count" example:"2"`
}

// HealthResponse represents liveness and readiness answers
type HealthResponse struct {
	Status  string            `json:"status" example:"ok"`
	Version string            `json:"version,omitempty" example:"0.1.0"`
	Checks  map[string]string `json:"checks,omitempty"`
}

var formURLEncoded = mime.MIME("application/x-www-form-urlencoded")

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Ponto Attendance API",
		Version:     "v1.0.0",
		Description: "Face-recognition time clock: snapshots are matched against registered faces and every match is logged as attendance",
		Host:        "localhost:3000",
		Path:        "/",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /upload - Recognize faces
		endpoint.New(
			endpoint.POST,
			"/upload",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Recognize faces in a snapshot"),
			endpoint.WithDescription("Form field `image` holds a data URL (data:image/jpeg;base64,...). Returns one name per detected face in detection order, or Unknown. Every recognized face is logged and today's summary is rebuilt. Failures keep HTTP 200 with empty results and an error code."),
			endpoint.WithConsume([]mime.MIME{formURLEncoded, mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(UploadResponse{}, "200", "Recognition result (check error for failures)"),
			}),
		),

		// POST /register - Register a face
		endpoint.New(
			endpoint.POST,
			"/register",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("Register a reference face"),
			endpoint.WithDescription("Form fields `name` and `image` (data URL). The image must contain a face; it is stored as faces/<name>.<ext>, replacing any previous image for that name, and the gallery is reloaded."),
			endpoint.WithConsume([]mime.MIME{formURLEncoded, mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RegisterResponse{}, "200", "Registration result (check success)"),
			}),
		),

		// GET /faces/{filename} - Stored image
		endpoint.New(
			endpoint.GET,
			"/faces/{filename}",
			endpoint.WithTags("Gallery"),
			endpoint.WithSummary("Get a stored reference image"),
			endpoint.WithProduce([]mime.MIME{mime.MIME("image/jpeg"), mime.MIME("image/png")}),
			endpoint.WithParams(
				parameter.StrParam("filename", parameter.Path, parameter.WithDescription("Image file name, e.g. alice.jpg")),
			),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Error: ErrorData{Code: "FACE_NOT_FOUND", Message: "Face image not found"}}, "404", "Not Found"),
			}),
		),

		// GET /gallery - Registered names
		endpoint.New(
			endpoint.GET,
			"/gallery",
			endpoint.WithTags("Gallery"),
			endpoint.WithSummary("List registered names"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(GalleryResponse{}, "200", "Names currently loaded"),
			}),
		),

		// GET /summary - Summary rows of a day
		endpoint.New(
			endpoint.GET,
			"/summary",
			endpoint.WithTags("Summary"),
			endpoint.WithSummary("Get the attendance summary of a day"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("date", parameter.Query, parameter.WithDescription("Day (YYYY-MM-DD, default: today)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SummaryResponse{}, "200", "Summary rows"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Error: ErrorData{Code: "INVALID_DATE", Message: "Date must use the YYYY-MM-DD format"}}, "400", "Bad Request"),
				response.New(ErrorResponse{Error: ErrorData{Code: "IO_FAILURE", Message: "Failed to read or write attendance data"}}, "500", "Internal Server Error"),
			}),
		),

		// POST /summary/rebuild - Re-aggregate a day
		endpoint.New(
			endpoint.POST,
			"/summary/rebuild",
			endpoint.WithTags("Summary"),
			endpoint.WithSummary("Rebuild the summary of a day"),
			endpoint.WithDescription("Re-aggregates the attendance log of the day and upserts one row per (name, check-in)."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("date", parameter.Query, parameter.WithDescription("Day (YYYY-MM-DD, default: today)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SummaryResponse{}, "200", "Rebuilt rows"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Error: ErrorData{Code: "INVALID_DATE", Message: "Date must use the YYYY-MM-DD format"}}, "400", "Bad Request"),
				response.New(ErrorResponse{Error: ErrorData{Code: "IO_FAILURE", Message: "Failed to read or write attendance data"}}, "500", "Internal Server Error"),
			}),
		),

		// GET /ws - Live feed
		endpoint.New(
			endpoint.GET,
			"/ws",
			endpoint.WithTags("Live"),
			endpoint.WithSummary("Live attendance feed (websocket)"),
			endpoint.WithDescription("Upgrade to a websocket to receive attendance.recorded, face.registered and summary.rebuilt events as JSON messages {type, data, timestamp}."),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Error: ErrorData{Code: "HTTP_ERROR", Message: "Upgrade Required"}}, "426", "Upgrade Required"),
			}),
		),

		// GET /health
		endpoint.New(
			endpoint.GET,
			"/health",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Liveness probe"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Process is up"),
			}),
		),

		// GET /ready
		endpoint.New(
			endpoint.GET,
			"/ready",
			endpoint.WithTags("Health"),
			endpoint.WithSummary("Readiness probe"),
			endpoint.WithDescription("Ready once the gallery has loaded (and the database answers, when configured)."),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HealthResponse{}, "200", "Ready"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(HealthResponse{Status: "not_ready"}, "503", "Service Unavailable"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}
