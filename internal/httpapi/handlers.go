package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"airdrop-tracker/internal/dataset"
	"airdrop-tracker/internal/tracker"
)

const defaultPageSize = 20

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	d, err := s.trk.Dashboard(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toDashboardResponse(d))
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stats, err := s.trk.Stats(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toStatsResponse(stats))
}

func (s *Server) handleWallets(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if id := r.URL.Query().Get("id"); id != "" {
			detail, err := s.trk.WalletDetail(r.Context(), id)
			if err != nil {
				s.respondServiceError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, toWalletDetailResponse(detail))
			return
		}

		wallets, err := s.trk.Wallets(r.Context())
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		out := make([]walletResponse, 0, len(wallets))
		for _, wlt := range wallets {
			out = append(out, toWalletResponse(wlt))
		}
		respondJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var req createWalletRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		wlt, err := s.trk.AddWallet(r.Context(), req.Name, req.Address)
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, toWalletResponse(wlt))

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			respondError(w, http.StatusBadRequest, "id is required")
			return
		}
		if err := s.trk.RemoveWallet(r.Context(), id); err != nil {
			s.respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleChains(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if id := r.URL.Query().Get("id"); id != "" {
			c, err := s.trk.GetChain(r.Context(), id)
			if err != nil {
				s.respondServiceError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, toChainResponse(c))
			return
		}

		chains, err := s.trk.Chains(r.Context())
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		out := make([]chainResponse, 0, len(chains))
		for _, c := range chains {
			out = append(out, toChainResponse(c))
		}
		respondJSON(w, http.StatusOK, out)

	case http.MethodPost:
		var req createChainRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		c, err := s.trk.AddChain(r.Context(), req.Name, req.IsEVM)
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, toChainResponse(c))

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			respondError(w, http.StatusBadRequest, "id is required")
			return
		}
		if err := s.trk.RemoveChain(r.Context(), id); err != nil {
			s.respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		if id := r.URL.Query().Get("id"); id != "" {
			tx, err := s.trk.GetTransaction(r.Context(), id)
			if err != nil {
				s.respondServiceError(w, err)
				return
			}
			respondJSON(w, http.StatusOK, toTransactionResponse(tx))
			return
		}

		pageIndex, err := parseIntParam(r, "page", 0)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		pageSize, err := parseIntParam(r, "pageSize", defaultPageSize)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}

		page, err := s.trk.PageTransactions(r.Context(), r.URL.Query().Get("wallet"), pageIndex, pageSize)
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, toPageResponse(page))

	case http.MethodPost:
		var req createTransactionRequest
		if err := decodeBody(r, &req); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		tx, err := s.trk.LogTransaction(r.Context(), tracker.TransactionInput{
			WalletID:   req.WalletID,
			ChainID:    req.ChainID,
			Timestamp:  req.Timestamp,
			ZeroVolume: req.ZeroVolume,
			Volume:     req.Volume,
			Gas:        req.Gas,
			Comment:    req.Comment,
		})
		if err != nil {
			s.respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusCreated, toTransactionResponse(tx))

	case http.MethodDelete:
		id := r.URL.Query().Get("id")
		if id == "" {
			respondError(w, http.StatusBadRequest, "id is required")
			return
		}
		if err := s.trk.RemoveTransaction(r.Context(), id); err != nil {
			s.respondServiceError(w, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})

	default:
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from, err := parseMillisParam(r, "from", 0)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	to, err := parseMillisParam(r, "to", time.Now().UnixMilli())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	snaps, err := s.trk.History(r.Context(), time.UnixMilli(from), time.UnixMilli(to))
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	out := make([]snapshotResponse, 0, len(snaps))
	for _, snap := range snaps {
		out = append(out, *toSnapshotResponse(snap))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	snap, err := s.trk.RecordSnapshot(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toSnapshotResponse(snap))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ds, err := s.trk.ExportDataset(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="airdrop-tracker.json"`)
	w.WriteHeader(http.StatusOK)
	if err := dataset.WriteJSON(w, ds); err != nil {
		s.log.Error().Err(err).Msg("Dataset write failed")
	}
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ds, err := dataset.ReadJSON(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.trk.ImportDataset(r.Context(), ds)
	if err != nil {
		if errors.Is(err, dataset.ErrInvalidDataset) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{
		"wallets_added":        res.WalletsAdded,
		"chains_added":         res.ChainsAdded,
		"transactions_added":   res.TransactionsAdded,
		"wallets_skipped":      res.WalletsSkipped,
		"chains_skipped":       res.ChainsSkipped,
		"transactions_skipped": res.TransactionsSkipped,
	})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

func parseIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return value, nil
}

func parseMillisParam(r *http.Request, key string, defaultValue int64) (int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return value, nil
}
