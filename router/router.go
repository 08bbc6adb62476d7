// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"
	"strings"

	"github.com/danielhkuo/evote/auth"
	"github.com/danielhkuo/evote/ballot"
	"github.com/danielhkuo/evote/catalog"
	"github.com/danielhkuo/evote/cliparse"
	"github.com/danielhkuo/evote/handlers"
	"github.com/danielhkuo/evote/live"
	"github.com/danielhkuo/evote/media"
	"github.com/danielhkuo/evote/middleware"
	"github.com/danielhkuo/evote/voting"
)

// NewRouter wires the stores, the voting service, and the handlers onto a
// ServeMux. hub must already be running.
func NewRouter(db *sql.DB, cfg cliparse.Config, hub *live.Hub) *http.ServeMux {
	mux := http.NewServeMux()

	catalogStore := catalog.NewStore(db)
	mediaStore := media.NewStore(cfg.MediaDir)
	svc := voting.NewService(
		catalogStore,
		ballot.NewStore(db),
		ballot.NewEncoder(cfg.VoteEncryptionKey),
		cfg.VoterTokenSalt,
		voting.SystemClock{},
	)
	svc.SetPercentScope(cfg.PercentScope)

	electionHandler := handlers.NewElectionHandler(catalogStore, voting.SystemClock{})
	votingHandler := handlers.NewVotingHandler(svc, hub)
	resultsHandler := handlers.NewResultsHandler(svc, hub)
	adminHandler := handlers.NewAdminHandler(catalogStore, mediaStore, svc)

	voter := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireVoter(cfg.JWTSecret, h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireCapability(cfg.JWTSecret, auth.IsAdminAndApproved, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Public listing
	mux.HandleFunc("GET /elections", middleware.WithLogging(electionHandler.ListElections))
	mux.HandleFunc("GET /elections/{id}", middleware.WithLogging(electionHandler.GetElection))
	mux.Handle("GET /media/", http.StripPrefix("/media/", noListing(http.FileServer(http.Dir(cfg.MediaDir)))))

	// Voting (authenticated voter)
	mux.HandleFunc("GET /elections/{id}/ballot", voter(votingHandler.Ballot))
	mux.HandleFunc("POST /elections/{id}/votes", voter(votingHandler.CastVote))
	mux.HandleFunc("GET /elections/{id}/my-vote", voter(votingHandler.MyVote))

	// Results
	mux.HandleFunc("GET /elections/{id}/results", voter(resultsHandler.GetResults))
	mux.HandleFunc("GET /elections/{id}/turnout", middleware.WithLogging(resultsHandler.Turnout))
	mux.HandleFunc("GET /elections/{id}/live", voter(resultsHandler.Live))

	// Administration (approved admins)
	mux.HandleFunc("POST /admin/elections", admin(adminHandler.CreateElection))
	mux.HandleFunc("PUT /admin/elections/{id}", admin(adminHandler.UpdateElection))
	mux.HandleFunc("DELETE /admin/elections/{id}", admin(adminHandler.DeleteElection))
	mux.HandleFunc("GET /admin/elections/{id}/candidates", admin(adminHandler.ListCandidates))
	mux.HandleFunc("GET /admin/elections/{id}/audit", admin(adminHandler.Audit))
	mux.HandleFunc("POST /admin/elections/{id}/positions", admin(adminHandler.CreatePosition))
	mux.HandleFunc("PUT /admin/positions/{id}", admin(adminHandler.UpdatePosition))
	mux.HandleFunc("DELETE /admin/positions/{id}", admin(adminHandler.DeletePosition))
	mux.HandleFunc("POST /admin/positions/{id}/candidates", admin(adminHandler.CreateCandidate))
	mux.HandleFunc("PUT /admin/candidates/{id}", admin(adminHandler.UpdateCandidate))
	mux.HandleFunc("DELETE /admin/candidates/{id}", admin(adminHandler.DeleteCandidate))
	mux.HandleFunc("POST /admin/candidates/{id}/photo", admin(adminHandler.UploadPhoto))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("evote API v1"))
	})

	return mux
}

// noListing hides directory indexes from the file server.
func noListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
