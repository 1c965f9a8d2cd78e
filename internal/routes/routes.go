package routes

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/jwtkit/jwtkit/internal/auth"
	"github.com/jwtkit/jwtkit/internal/config"
	"github.com/jwtkit/jwtkit/internal/database"
	"github.com/jwtkit/jwtkit/internal/handlers"
	"github.com/jwtkit/jwtkit/internal/issuer"
	"github.com/jwtkit/jwtkit/internal/logging"
)

// RegisterTokenRoutes sets up the key, profile and token API routes.
// HTTP concerns are handled here, while business logic is delegated to
// the handlers package. The JWKS document is registered outside the
// authenticated group so verifiers can fetch public keys anonymously.
func RegisterTokenRoutes(db *sql.DB, authCfg auth.AuthConfig, rateCfg config.RateLimitConfig, iss *issuer.Issuer) func(r chi.Router) {
	keys := database.NewPostgresKeyRepository(db)
	profiles := database.NewPostgresProfileRepository(db)

	return func(r chi.Router) {
		r.Route("/api/v1", func(r chi.Router) {
			r.Use(countRequests)
			if rateCfg.Requests > 0 {
				r.Use(httprate.LimitByIP(rateCfg.Requests, rateCfg.Window))
			}
			r.Use(requireAcceptJSON)
			r.Use(requireContentTypeJSON)
			r.Use(auth.Middleware(authCfg))

			r.Route("/keys", func(r chi.Router) {
				r.Get("/", listKeysRoute(keys))
				r.Post("/", addKeyRoute(keys))
				r.Get("/{name}", getKeyRoute(keys))
				r.Post("/{name}/rotate", rotateKeyRoute(keys))
				r.Delete("/{name}", removeKeyRoute(keys))
			})

			r.Route("/profiles", func(r chi.Router) {
				r.Get("/", listProfilesRoute(profiles))
				r.Post("/", addProfileRoute(profiles, keys))
				r.Get("/{name}", getProfileRoute(profiles))
				r.Put("/{name}", updateProfileRoute(profiles, keys))
				r.Delete("/{name}", removeProfileRoute(profiles))
			})

			r.Post("/tokens/{profile}", issueTokenRoute(keys, profiles, iss))
			r.Post("/inspect", inspectTokenRoute())
		})

		r.Get("/.well-known/jwks.json", jwksRoute(keys))
	}
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func listKeysRoute(keys database.KeyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		list, err := handlers.ListKeys(keys)
		if err != nil {
			logging.Log(ctx).Layer("routes").Op("listKeys").Err(err).
				Error("failed to list signing keys")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("listKeys").
			Int("count", len(list)).Int("status_code", http.StatusOK).
			Info("signing keys retrieved successfully")
		respondWithJSON(w, http.StatusOK, list)
	}
}

func addKeyRoute(keys database.KeyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req handlers.AddKeyRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logging.Log(ctx).Layer("routes").Op("addKey").Err(err).
				Error("failed to decode request body")
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		logging.Log(ctx).Layer("routes").Op("addKey").Key(req.Name).
			Str("algorithm", req.Algorithm).
			Info("received add key request")

		detail, err := handlers.AddKey(ctx, keys, req.Name, req.Algorithm, req.KeySize)
		if err != nil {
			var validationErr *handlers.ValidationError
			if errors.As(err, &validationErr) {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			if err == database.ErrAlreadyExists {
				logging.Log(ctx).Layer("routes").Key(req.Name).
					Warn("signing key already exists")
				respondWithError(w, http.StatusConflict, "Signing key already exists")
				return
			}
			logging.Log(ctx).Layer("routes").Key(req.Name).Err(err).
				Error("failed to add signing key")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("addKey").Key(req.Name).
			Int("status_code", http.StatusCreated).
			Info("signing key added successfully")
		respondWithJSON(w, http.StatusCreated, detail)
	}
}

func getKeyRoute(keys database.KeyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := chi.URLParam(r, "name")

		if err := handlers.ValidateName(name); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		detail, err := handlers.GetKey(keys, name)
		if err != nil {
			if err == database.ErrNotFound {
				respondWithError(w, http.StatusNotFound, "Signing key not found")
				return
			}
			logging.Log(ctx).Layer("routes").Key(name).Err(err).
				Error("failed to get signing key")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, detail)
	}
}

func rotateKeyRoute(keys database.KeyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := chi.URLParam(r, "name")

		if err := handlers.ValidateName(name); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("rotateKey").Key(name).
			Info("received rotate key request")

		detail, err := handlers.RotateKey(ctx, keys, name)
		if err != nil {
			if err == database.ErrNotFound {
				logging.Log(ctx).Layer("routes").Key(name).
					Warn("signing key not found")
				respondWithError(w, http.StatusNotFound, "Signing key not found")
				return
			}
			logging.Log(ctx).Layer("routes").Key(name).Err(err).
				Error("failed to rotate signing key")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("rotateKey").Key(name).
			Int("version", detail.Version).Int("status_code", http.StatusOK).
			Info("signing key rotated successfully")
		respondWithJSON(w, http.StatusOK, detail)
	}
}

func removeKeyRoute(keys database.KeyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := chi.URLParam(r, "name")

		if err := handlers.ValidateName(name); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("removeKey").Key(name).
			Info("received remove key request")

		err := handlers.DeleteKey(keys, name)
		if err != nil {
			if err == database.ErrNotFound {
				logging.Log(ctx).Layer("routes").Key(name).
					Warn("signing key not found")
				respondWithError(w, http.StatusNotFound, "Signing key not found")
				return
			}
			if err == database.ErrKeyInUse {
				logging.Log(ctx).Layer("routes").Key(name).
					Warn("signing key still referenced by a profile")
				respondWithError(w, http.StatusConflict, "Signing key is referenced by a token profile")
				return
			}
			logging.Log(ctx).Layer("routes").Key(name).Err(err).
				Error("failed to remove signing key")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("removeKey").Key(name).
			Int("status_code", http.StatusOK).
			Info("signing key removed successfully")
		respondWithJSON(w, http.StatusOK, map[string]string{"message": "Signing key removed successfully"})
	}
}

func jwksRoute(keys database.KeyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		set, err := handlers.BuildJWKS(keys)
		if err != nil {
			logging.Log(ctx).Layer("routes").Op("jwks").Err(err).
				Error("failed to build JWKS document")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, set)
	}
}

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}
