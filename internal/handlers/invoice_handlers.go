package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"shutterdesk/internal/common"
	"shutterdesk/internal/models"
	"shutterdesk/internal/repositories"
	"shutterdesk/internal/services"

	"github.com/jung-kurt/gofpdf"
	"github.com/labstack/echo/v4"
)

type InvoiceHandlers struct {
	invoiceService services.InvoiceService
	clientRepo     repositories.ClientRepository
	userRepo       repositories.UserRepository
	dashboard      DashboardInvalidator
}

func NewInvoiceHandlers(invoiceService services.InvoiceService, clientRepo repositories.ClientRepository,
	userRepo repositories.UserRepository, dashboard DashboardInvalidator) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService: invoiceService,
		clientRepo:     clientRepo,
		userRepo:       userRepo,
		dashboard:      dashboard,
	}
}

func (h *InvoiceHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	var req services.CreateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	invoice, err := h.invoiceService.Create(ctx, userID, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	h.dashboard.Invalidate(ctx, userID)
	return c.JSON(http.StatusCreated, invoice)
}

func (h *InvoiceHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	invoice, err := h.invoiceService.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return common.SendNotFoundError(c, "Invoice")
	}

	return c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	if c.QueryParam("unpaid") == "true" {
		invoices, err := h.invoiceService.ListUnpaid(ctx, userID)
		if err != nil {
			return common.SendServerError(c, "Failed to list invoices")
		}
		return c.JSON(http.StatusOK, invoices)
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	invoices, err := h.invoiceService.List(ctx, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list invoices")
	}

	return c.JSON(http.StatusOK, invoices)
}

func (h *InvoiceHandlers) Update(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	invoice, err := h.invoiceService.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return common.SendNotFoundError(c, "Invoice")
	}

	var req services.CreateInvoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	invoice.Amount = req.Amount
	invoice.DueDate = req.DueDate
	if req.BookingID != nil {
		invoice.BookingID = req.BookingID
	}

	if err := h.invoiceService.Update(ctx, invoice); err != nil {
		return common.SendClientError(c, err.Error())
	}

	h.dashboard.Invalidate(ctx, userID)
	return c.JSON(http.StatusOK, invoice)
}

func (h *InvoiceHandlers) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var req UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := h.invoiceService.UpdateStatus(ctx, userID, invoiceID, req.Status); err != nil {
		if errors.Is(err, services.ErrInvalidTransition) {
			return common.SendClientError(c, err.Error())
		}
		return common.SendNotFoundError(c, "Invoice")
	}

	h.dashboard.Invalidate(ctx, userID)
	return c.NoContent(http.StatusNoContent)
}

func (h *InvoiceHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.invoiceService.Delete(ctx, userID, invoiceID); err != nil {
		return common.SendClientError(c, err.Error())
	}

	h.dashboard.Invalidate(ctx, userID)
	return c.NoContent(http.StatusNoContent)
}

// DownloadPDF streams the invoice as a generated PDF document.
func (h *InvoiceHandlers) DownloadPDF(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "invoice id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	invoice, err := h.invoiceService.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return common.SendNotFoundError(c, "Invoice")
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return common.SendServerError(c, "Failed to load account")
	}

	client, err := h.clientRepo.GetByID(ctx, userID, invoice.ClientID)
	if err != nil {
		return common.SendServerError(c, "Failed to load client")
	}

	pdfBytes, err := h.generateInvoicePDF(invoice, user, client)
	if err != nil {
		return common.SendServerError(c, "Failed to generate PDF")
	}

	c.Response().Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%s.pdf", invoice.InvoiceNumber))
	return c.Blob(http.StatusOK, "application/pdf", pdfBytes)
}

func (h *InvoiceHandlers) generateInvoicePDF(invoice *models.Invoice, user *models.User, client *models.Client) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	marginX := 20.0
	marginY := 20.0
	pdf.SetMargins(marginX, marginY, marginX)
	pdf.SetAutoPageBreak(true, marginY)

	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(33, 37, 41)

	businessName := user.BusinessName
	if businessName == "" {
		businessName = user.FirstName + " " + user.LastName
	}

	pdf.SetXY(marginX, marginY)
	pdf.Cell(0, 10, businessName)
	pdf.Ln(15)

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Invoice Number: %s", invoice.InvoiceNumber))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Issue Date: %s", invoice.IssuedDate.Format("02-Jan-2006")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Due Date: %s", invoice.DueDate.Format("02-Jan-2006")))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", invoice.Status))
	pdf.Ln(13)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "BILL TO:")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, client.Name)
	pdf.Ln(6)
	if client.Email != nil && *client.Email != "" {
		pdf.Cell(0, 6, *client.Email)
		pdf.Ln(6)
	}
	if client.Phone != nil && *client.Phone != "" {
		pdf.Cell(0, 6, *client.Phone)
		pdf.Ln(6)
	}
	pdf.Ln(10)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(240, 240, 240)

	headers := []string{"Description", "Amount"}
	colWidths := []float64{130, 40}

	for i, header := range headers {
		pdf.CellFormat(colWidths[i], 8, header, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(255, 255, 255)

	pdf.CellFormat(colWidths[0], 8, "Photography services", "1", 0, "L", false, 0, "")
	pdf.CellFormat(colWidths[1], 8, fmt.Sprintf("%.2f", invoice.Amount), "1", 0, "R", false, 0, "")
	pdf.Ln(12)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(colWidths[0], 8, "Total", "0", 0, "R", false, 0, "")
	pdf.CellFormat(colWidths[1], 8, fmt.Sprintf("%.2f", invoice.Amount), "1", 0, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
