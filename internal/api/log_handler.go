package api

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/shaiso/Logbook/internal/domain"
	"github.com/shaiso/Logbook/internal/telemetry"
)

// PostLog обрабатывает POST /log.
func (h *Handler) PostLog(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)

	var req LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RequestTooLarge(w)
			return
		}
		BadRequest(w, MsgInvalidBody)
		return
	}

	ack, err := h.recorder.Handle(r.Context(), req.Message, h.clientID(r))
	if err != nil {
		if domain.IsValidation(err) {
			BadRequest(w, err.Error())
			return
		}
		InternalError(w, telemetry.FromContextOr(r.Context(), h.logger), err)
		return
	}

	Success(w, LogResponse{Status: ack.Status, Message: ack.Message})
}

// clientID определяет идентификатор клиента.
// При TrustProxy берётся первый адрес из X-Forwarded-For, если это IP.
// Иначе используется адрес соединения.
func (h *Handler) clientID(r *http.Request) string {
	if h.trustProxy {
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			first, _, _ := strings.Cut(fwd, ",")
			if addr, err := netip.ParseAddr(strings.TrimSpace(first)); err == nil {
				return addr.String()
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
