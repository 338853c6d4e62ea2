package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	"github.com/angelmondragon/marketplace-backend/api/validators"
	"github.com/angelmondragon/marketplace-backend/internal/principals"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
)

const maxSearchTermLength = 100

// SellerStore is the seller persistence used by the profile and admin endpoints.
type SellerStore interface {
	UpdateShopInfo(ctx context.Context, id uuid.UUID, info map[string]string) (*models.Seller, error)
	Search(ctx context.Context, params principals.SearchParams) ([]models.Seller, string, error)
}

type profileInfoRequest struct {
	ShopName    string `json:"shopName" validate:"required,max=120"`
	Division    string `json:"division" validate:"max=120"`
	District    string `json:"district" validate:"max=120"`
	SubDistrict string `json:"sub_district" validate:"max=120"`
}

func (p profileInfoRequest) shopInfo() map[string]string {
	return map[string]string{
		"shopName":     strings.TrimSpace(p.ShopName),
		"division":     strings.TrimSpace(p.Division),
		"district":     strings.TrimSpace(p.District),
		"sub_district": strings.TrimSpace(p.SubDistrict),
	}
}

// SellerProfileInfo stores the shop details of the authenticated seller.
func SellerProfileInfo(store SellerStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seller store unavailable"))
			return
		}

		id, err := principalIDFromContext(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body profileInfoRequest
		if err := validators.DecodeJSON(r, &body, validators.DecodeOptions{AllowUnknownFields: true}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		seller, err := store.UpdateShopInfo(r.Context(), id, body.shopInfo())
		if err != nil {
			if db.IsRecordNotFound(err) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "User not found"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update shop info"))
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, responses.UserInfoEnvelope{
			Message:  "Profile info added successfully",
			UserInfo: principals.FromSeller(seller),
		})
	}
}

type sellerSearchResponse struct {
	Sellers    []*principals.SellerDTO `json:"sellers"`
	NextCursor string                  `json:"next_cursor,omitempty"`
}

// AdminSearchSellers lists sellers for the admin dashboard, newest first.
func AdminSearchSellers(store SellerStore, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "seller store unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := principals.SearchParams{
			Query:  validators.ParseQueryString(r, "q", maxSearchTermLength),
			Params: pagination.Params{Limit: limit, Cursor: strings.TrimSpace(r.URL.Query().Get("cursor"))},
		}
		if raw := validators.ParseQueryString(r, "status", 32); raw != "" {
			status, err := enums.ParseSellerStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").WithDetails(map[string]any{"field": "status"}))
				return
			}
			params.Status = &status
		}
		if _, err := pagination.ParseCursor(params.Cursor); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor").WithDetails(map[string]any{"field": "cursor"}))
			return
		}

		rows, next, err := store.Search(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search sellers"))
			return
		}

		resp := sellerSearchResponse{Sellers: make([]*principals.SellerDTO, 0, len(rows)), NextCursor: next}
		for i := range rows {
			resp.Sellers = append(resp.Sellers, principals.FromSeller(&rows[i]))
		}
		responses.WriteSuccess(w, resp)
	}
}
