package routes

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jwtkit/jwtkit/internal/database"
	"github.com/jwtkit/jwtkit/internal/handlers"
	"github.com/jwtkit/jwtkit/internal/logging"
	"github.com/jwtkit/jwtkit/internal/models"
)

func listProfilesRoute(profiles database.ProfileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		list, err := handlers.ListProfiles(profiles)
		if err != nil {
			logging.Log(ctx).Layer("routes").Op("listProfiles").Err(err).
				Error("failed to list token profiles")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("listProfiles").
			Int("count", len(list)).Int("status_code", http.StatusOK).
			Info("token profiles retrieved successfully")
		respondWithJSON(w, http.StatusOK, list)
	}
}

func addProfileRoute(profiles database.ProfileRepository, keys database.KeyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var profile models.Profile
		if err := json.NewDecoder(r.Body).Decode(&profile); err != nil {
			logging.Log(ctx).Layer("routes").Op("addProfile").Err(err).
				Error("failed to decode request body")
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		logging.Log(ctx).Layer("routes").Op("addProfile").Profile(profile.Name).
			Key(profile.KeyName).
			Info("received add profile request")

		created, err := handlers.AddProfile(ctx, profiles, keys, &profile)
		if err != nil {
			var validationErr *handlers.ValidationError
			if errors.As(err, &validationErr) {
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			if err == database.ErrAlreadyExists {
				logging.Log(ctx).Layer("routes").Profile(profile.Name).
					Warn("token profile already exists")
				respondWithError(w, http.StatusConflict, "Token profile already exists")
				return
			}
			logging.Log(ctx).Layer("routes").Profile(profile.Name).Err(err).
				Error("failed to add token profile")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("addProfile").Profile(profile.Name).
			Int("status_code", http.StatusCreated).
			Info("token profile added successfully")
		respondWithJSON(w, http.StatusCreated, created)
	}
}

func getProfileRoute(profiles database.ProfileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := chi.URLParam(r, "name")

		if err := handlers.ValidateName(name); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		profile, err := handlers.GetProfile(profiles, name)
		if err != nil {
			if err == database.ErrNotFound {
				respondWithError(w, http.StatusNotFound, "Token profile not found")
				return
			}
			logging.Log(ctx).Layer("routes").Profile(name).Err(err).
				Error("failed to get token profile")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		respondWithJSON(w, http.StatusOK, profile)
	}
}

func updateProfileRoute(profiles database.ProfileRepository, keys database.KeyRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := chi.URLParam(r, "name")

		if err := handlers.ValidateName(name); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		var incoming models.Profile
		if err := json.NewDecoder(r.Body).Decode(&incoming); err != nil {
			logging.Log(ctx).Layer("routes").Profile(name).Err(err).
				Error("failed to decode request body")
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		logging.Log(ctx).Layer("routes").Op("updateProfile").Profile(name).
			Info("received update profile request")

		updated, err := handlers.UpdateProfile(profiles, keys, name, &incoming)
		if err != nil {
			var validationErr *handlers.ValidationError
			if errors.As(err, &validationErr) {
				logging.Log(ctx).Layer("routes").Profile(name).Err(err).
					Warn("validation error on update profile")
				respondWithError(w, http.StatusBadRequest, err.Error())
				return
			}
			if err == database.ErrNotFound {
				logging.Log(ctx).Layer("routes").Profile(name).
					Warn("token profile not found")
				respondWithError(w, http.StatusNotFound, "Token profile not found")
				return
			}
			logging.Log(ctx).Layer("routes").Profile(name).Err(err).
				Error("failed to update token profile")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("updateProfile").Profile(name).
			Int("status_code", http.StatusOK).
			Info("token profile updated successfully")
		respondWithJSON(w, http.StatusOK, updated)
	}
}

func removeProfileRoute(profiles database.ProfileRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		name := chi.URLParam(r, "name")

		if err := handlers.ValidateName(name); err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("removeProfile").Profile(name).
			Info("received remove profile request")

		err := handlers.DeleteProfile(profiles, name)
		if err != nil {
			if err == database.ErrNotFound {
				logging.Log(ctx).Layer("routes").Profile(name).
					Warn("token profile not found")
				respondWithError(w, http.StatusNotFound, "Token profile not found")
				return
			}
			logging.Log(ctx).Layer("routes").Profile(name).Err(err).
				Error("failed to remove token profile")
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		logging.Log(ctx).Layer("routes").Op("removeProfile").Profile(name).
			Int("status_code", http.StatusOK).
			Info("token profile removed successfully")
		respondWithJSON(w, http.StatusOK, map[string]string{"message": "Token profile removed successfully"})
	}
}
