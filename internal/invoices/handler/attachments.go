package handler

import (
	"net/http"

	"tourdesk_backend/internal/invoices/service"
	"tourdesk_backend/internal/invoices/transport"
	"tourdesk_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

func (h *Handler) CreateAttachment(c *gin.Context) {
	var req transport.CreateAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, actorID, ok := mustGetActor(c)
	if !ok {
		return
	}

	upload, err := h.svc.CreateAttachmentUpload(c.Request.Context(), service.AttachmentUploadParams{
		InvoiceID:      id,
		OrganizationID: tenantID,
		FileName:       req.FileName,
		ContentType:    req.ContentType,
		SizeBytes:      req.SizeBytes,
		UploadedBy:     actorID,
	})
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusCreated, transport.AttachmentUploadResponse{
		Attachment: toAttachmentResponse(upload.Attachment),
		UploadURL:  upload.Upload.URL,
		ExpiresAt:  upload.Upload.ExpiresAt,
	})
}

func (h *Handler) ListAttachments(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	attachments, err := h.svc.ListAttachments(c.Request.Context(), id, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	items := make([]transport.AttachmentResponse, 0, len(attachments))
	for _, a := range attachments {
		items = append(items, toAttachmentResponse(a))
	}
	httpkit.OK(c, items)
}

func (h *Handler) DownloadAttachment(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		return
	}
	attachmentID, ok := parseUUIDParam(c, "attachmentID")
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	presigned, err := h.svc.AttachmentDownload(c.Request.Context(), attachmentID, invoiceID, tenantID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, transport.AttachmentDownloadResponse{
		DownloadURL: presigned.URL,
		ExpiresAt:   presigned.ExpiresAt,
	})
}

func (h *Handler) DeleteAttachment(c *gin.Context) {
	invoiceID, ok := parseIDParam(c)
	if !ok {
		return
	}
	attachmentID, ok := parseUUIDParam(c, "attachmentID")
	if !ok {
		return
	}
	tenantID, ok := mustGetTenantID(c)
	if !ok {
		return
	}

	if err := h.svc.DeleteAttachment(c.Request.Context(), attachmentID, invoiceID, tenantID); httpkit.HandleError(c, err) {
		return
	}

	c.Status(http.StatusNoContent)
}
