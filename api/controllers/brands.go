package controllers

import (
	"net/http"

	"github.com/angelmondragon/siteadmin-backend/api/responses"
	"github.com/angelmondragon/siteadmin-backend/api/validators"
	"github.com/angelmondragon/siteadmin-backend/internal/brands"
	"github.com/angelmondragon/siteadmin-backend/pkg/logger"
)

func AdminListBrands(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := validators.ParsePage(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.List(r.Context(), brands.ListInput{Query: queryText(r, "q"), Page: page})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func AdminGetBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireID(w, r, logg)
		if !ok {
			return
		}
		brand, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, brand)
	}
}

// AdminSaveBrand creates (no id segment) or replaces a brand, logo included.
func AdminSaveBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := optionalID(w, r, logg)
		if !ok {
			return
		}
		var input brands.SaveInput
		req, ok := readSave(w, r, logg, &input)
		if !ok {
			return
		}
		defer req.Close()

		brand, err := svc.Save(r.Context(), id, input, req.Files)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeSaved(w, id, brand)
	}
}

func AdminDeleteBrand(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := requireID(w, r, logg)
		if !ok {
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func PublicListBrands(svc brands.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		featured, err := validators.ParseQueryBool(r, "featured")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		items, err := svc.ListPublic(r.Context(), featured != nil && *featured)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
