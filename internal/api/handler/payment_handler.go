package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/righttechcentre/lms-api/internal/core/domain"
	"github.com/righttechcentre/lms-api/internal/core/ports"
)

const maxWebhookBody = 1 << 20

// PaymentHandler handles checkout, polling and the provider webhook.
type PaymentHandler struct {
	payments ports.PaymentService
	log      zerolog.Logger
}

func NewPaymentHandler(payments ports.PaymentService, log zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, log: log}
}

// Checkout handles POST /payments/checkout.
//
// @Summary      Start a checkout session for a course
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      checkoutRequest  true  "Course and return origin"
// @Success      200   {object}  checkoutResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /payments/checkout [post]
func (h *PaymentHandler) Checkout(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req checkoutRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	sess, err := h.payments.Checkout(c.Request().Context(), ports.CheckoutInput{
		UserID:    actor.UserID,
		CourseID:  req.CourseID,
		OriginURL: req.OriginURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checkoutResponse{CheckoutURL: sess.URL, SessionID: sess.SessionID})
}

// Status handles GET /payments/status/:session_id. A paid session enrolls
// the caller as a side effect.
//
// @Summary      Poll a checkout session
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Param        session_id  path      string  true  "Provider session id"
// @Success      200         {object}  paymentStatusResponse
// @Failure      404         {object}  errorResponse
// @Failure      502         {object}  errorResponse
// @Router       /payments/status/{session_id} [get]
func (h *PaymentHandler) Status(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	st, err := h.payments.PollStatus(c.Request().Context(), actor.UserID, c.Param("session_id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, paymentStatusResponse{
		Status:        st.Status,
		PaymentStatus: string(st.PaymentStatus),
		AmountTotal:   st.AmountTotal,
		Currency:      st.Currency,
	})
}

// List handles GET /payments.
//
// @Summary      List my payment transactions
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  domain.PaymentTransaction
// @Router       /payments [get]
func (h *PaymentHandler) List(c echo.Context) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	txs, err := h.payments.ListTransactions(c.Request().Context(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, txs)
}

// Webhook handles POST /webhook/stripe. The provider always gets 200 so it
// does not retry; failures are logged.
//
// @Summary      Payment provider webhook
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature  header    string  true  "Provider signature"
// @Success      200               {object}  webhookAck
// @Router       /webhook/stripe [post]
func (h *PaymentHandler) Webhook(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxWebhookBody))
	if err != nil {
		h.log.Error().Err(err).Msg("webhook: read body")
		return c.JSON(http.StatusOK, webhookAck{Received: true})
	}

	if err := h.payments.HandleWebhook(c.Request().Context(), body, c.Request().Header.Get("Stripe-Signature")); err != nil {
		ev := h.log.Error()
		if domain.KindOf(err) == domain.KindValidation {
			ev = h.log.Warn()
		}
		ev.Err(err).Msg("webhook processing failed")
	}
	return c.JSON(http.StatusOK, webhookAck{Received: true})
}
