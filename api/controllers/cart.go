package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tokoluma/luma-backend/api/middleware"
	"github.com/tokoluma/luma-backend/api/responses"
	"github.com/tokoluma/luma-backend/api/validators"
	"github.com/tokoluma/luma-backend/internal/cart"
	"github.com/tokoluma/luma-backend/internal/pricing"
	product "github.com/tokoluma/luma-backend/internal/products"
	pkgerrors "github.com/tokoluma/luma-backend/pkg/errors"
	"github.com/tokoluma/luma-backend/pkg/logger"
)

type addCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"omitempty,gte=0,max=999"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,max=999"`
}

// cartView is the derived cart payload: the raw lines plus the money
// breakdown recomputed on every read.
type cartView struct {
	Items      []cart.LineItem `json:"items"`
	TotalItems int             `json:"total_items"`
	Quote      pricing.Quote   `json:"quote"`
}

func renderCart(ledger *cart.Ledger, calc *pricing.Calculator) cartView {
	items := ledger.Items()
	return cartView{
		Items:      items,
		TotalItems: ledger.TotalItems(),
		Quote:      calc.Quote(ledger.TotalPrice()),
	}
}

// openLedger resolves the request's cart: the profile header names the slot,
// the signed-in user (if any) is the identity that guards it.
func openLedger(r *http.Request, manager *cart.Manager) (*cart.Ledger, error) {
	profileID := middleware.ProfileIDFromContext(r.Context())
	if profileID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "missing profile header")
	}
	identity := middleware.UserIDFromContext(r.Context())
	return manager.Open(r.Context(), profileID, identity)
}

func CartFetch(manager *cart.Manager, calc *pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ledger, err := openLedger(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, renderCart(ledger, calc))
	}
}

// CartAdd merges a catalog product into the cart. The product snapshot
// (name, price, image) is frozen the first time the line appears.
func CartAdd(manager *cart.Manager, products *product.Repository, calc *pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		row, err := products.FindByID(r.Context(), body.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "product not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product"))
			return
		}
		if !row.IsActive {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}

		ledger, err := openLedger(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line := cart.LineItem{
			ID:        row.ID.String(),
			Slug:      row.Slug,
			Name:      row.Name,
			UnitPrice: row.Price,
		}
		if len(row.Images) > 0 {
			line.Image = row.Images[0]
		}
		if err := ledger.Add(r.Context(), line, body.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, renderCart(ledger, calc))
	}
}

// CartQuote returns just the money breakdown for the current cart.
func CartQuote(manager *cart.Manager, calc *pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ledger, err := openLedger(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, calc.Quote(ledger.TotalPrice()))
	}
}

func CartUpdateItem(manager *cart.Manager, calc *pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ledger, err := openLedger(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := ledger.UpdateQuantity(r.Context(), chi.URLParam(r, "itemID"), body.Quantity); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, renderCart(ledger, calc))
	}
}

func CartRemoveItem(manager *cart.Manager, calc *pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ledger, err := openLedger(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := ledger.Remove(r.Context(), chi.URLParam(r, "itemID")); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, renderCart(ledger, calc))
	}
}

func CartClear(manager *cart.Manager, calc *pricing.Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ledger, err := openLedger(r, manager)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ledger.Clear(r.Context())
		responses.WriteSuccess(w, renderCart(ledger, calc))
	}
}
