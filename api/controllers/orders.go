package controllers

import (
	"net/http"
	"strings"

	"github.com/agropazar/agropazar-backend/api/middleware"
	"github.com/agropazar/agropazar-backend/api/responses"
	"github.com/agropazar/agropazar-backend/api/validators"
	"github.com/agropazar/agropazar-backend/internal/orders"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
)

// OfferCreate files a company bid on an active product.
func OfferCreate(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var body orders.CreateOfferInput
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		offer, err := svc.CreateOffer(r.Context(), user.ID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, offer)
	}
}

// OffersListFarm returns offers on the farmer's products.
func OffersListFarm(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		var status *enums.OfferStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			parsed, err := enums.ParseOfferStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, err.Error()))
				return
			}
			status = &parsed
		}

		rows, err := svc.ListFarmOffers(r.Context(), user.ID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// OffersListCompany returns the company's own offers.
func OffersListCompany(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		rows, err := svc.ListCompanyOffers(r.Context(), user.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// OfferAccept accepts a pending offer, creating the order.
func OfferAccept(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		offerID, err := pathUUID(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.AcceptOffer(r.Context(), user.ID, offerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

// OfferDecline declines a pending offer.
func OfferDecline(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		offerID, err := pathUUID(r, "offerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeclineOffer(r.Context(), user.ID, offerID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"declined": true})
	}
}

// OrdersListFarm returns the farmer's orders.
func OrdersListFarm(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		status, err := orderStatusFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListFarmOrders(r.Context(), user.ID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// OrdersListCompany returns the company's orders.
func OrdersListCompany(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		status, err := orderStatusFilter(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListCompanyOrders(r.Context(), user.ID, status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// OrderComplete marks an order completed, anchoring revenue windows.
func OrderComplete(svc *orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())
		if user == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required"))
			return
		}

		orderID, err := pathUUID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.CompleteOrder(r.Context(), user.ID, orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

func orderStatusFilter(r *http.Request) (*enums.OrderStatus, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("status"))
	if raw == "" {
		return nil, nil
	}
	parsed, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	return &parsed, nil
}
