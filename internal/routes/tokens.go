package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jwtkit/jwtkit/internal/auth"
	"github.com/jwtkit/jwtkit/internal/database"
	"github.com/jwtkit/jwtkit/internal/handlers"
	"github.com/jwtkit/jwtkit/internal/issuer"
	"github.com/jwtkit/jwtkit/internal/logging"
	"github.com/jwtkit/jwtkit/internal/token"
)

func issueTokenRoute(keys database.KeyRepository, profiles database.ProfileRepository, iss *issuer.Issuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		profileName := chi.URLParam(r, "profile")

		if err := handlers.ValidateName(profileName); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		var req handlers.TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logging.Log(ctx).Layer("routes").Op("issueToken").Profile(profileName).Err(err).
				Error("failed to decode request body")
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		logging.Log(ctx).Layer("routes").Op("issueToken").Profile(profileName).
			Subject(req.Subject).Caller(auth.CallerFromContext(ctx)).
			Info("received issue token request")

		issued, err := handlers.IssueToken(ctx, keys, profiles, iss, profileName, req.Subject, req.Claims)
		if err != nil {
			var validationErr *handlers.ValidationError
			if errors.As(err, &validationErr) {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			if err == database.ErrNotFound {
				logging.Log(ctx).Layer("routes").Profile(profileName).
					Warn("token profile not found")
				respondWithError(w, http.StatusNotFound, "Token profile not found")
				return
			}
			logging.Log(ctx).Layer("routes").Profile(profileName).Err(err).
				Error("failed to issue token")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("issueToken").Profile(profileName).
			Subject(req.Subject).Str("jti", issued.TokenID).Int("status_code", http.StatusCreated).
			Info("token issued successfully")
		respondWithJSON(w, http.StatusCreated, issued)
	}
}

func inspectTokenRoute() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req handlers.InspectRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logging.Log(ctx).Layer("routes").Op("inspectToken").Err(err).
				Error("failed to decode request body")
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		result, err := handlers.InspectToken(ctx, req.Token)
		if err != nil {
			var validationErr *handlers.ValidationError
			if errors.As(err, &validationErr) {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			var segErr *token.SegmentError
			if errors.Is(err, token.ErrMalformed) || errors.As(err, &segErr) {
				logging.Log(ctx).Layer("routes").Op("inspectToken").Err(err).
					Warn("token failed to decode")
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			logging.Log(ctx).Layer("routes").Op("inspectToken").Err(err).
				Error("failed to inspect token")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, result)
	}
}
