package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/righttechcentre/lms-api/internal/core/ports"
)

// CertificateHandler issues, lists and verifies certificates.
type CertificateHandler struct {
	certs ports.CertificateService
}

func NewCertificateHandler(certs ports.CertificateService) *CertificateHandler {
	return &CertificateHandler{certs: certs}
}

// List handles GET /certificates.
//
// @Summary      List my certificates
// @Tags         certificates
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.Certificate
// @Router       /certificates [get]
func (h *CertificateHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	list, err := h.certs.List(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /certificates/:id.
//
// @Summary      Get a certificate
// @Tags         certificates
// @Produce      json
// @Param        id   path      string  true  "Certificate id"
// @Success      200  {object}  domain.Certificate
// @Failure      404  {object}  errorResponse
// @Router       /certificates/{id} [get]
func (h *CertificateHandler) Get(c echo.Context) error {
	cert, err := h.certs.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cert)
}

// Verify handles GET /certificates/verify/:number. Unknown numbers are a
// normal response with valid=false.
//
// @Summary      Verify a certificate number
// @Tags         certificates
// @Produce      json
// @Param        number  path      string  true  "Certificate number"
// @Success      200     {object}  verifyResponse
// @Router       /certificates/verify/{number} [get]
func (h *CertificateHandler) Verify(c echo.Context) error {
	v, err := h.certs.Verify(c.Request().Context(), c.Param("number"))
	if err != nil {
		return err
	}
	if !v.Valid {
		return c.JSON(http.StatusOK, verifyResponse{Valid: false, Message: "Certificate not found"})
	}
	return c.JSON(http.StatusOK, verifyResponse{Valid: true, Certificate: v.Certificate})
}

// Issue handles POST /certificates.
//
// @Summary      Issue the certificate for a completed enrollment
// @Tags         certificates
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      issueCertificateRequest  true  "Enrollment"
// @Success      200   {object}  domain.Certificate
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /certificates [post]
func (h *CertificateHandler) Issue(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req issueCertificateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	cert, err := h.certs.Issue(c.Request().Context(), actor.UserID, req.EnrollmentID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cert)
}
