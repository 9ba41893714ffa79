package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/moaform/moaform-api/internal/infra/http/middleware"
	"github.com/moaform/moaform-api/internal/infra/integration/kakao"
	"github.com/moaform/moaform-api/internal/usecase"
)

const (
	stateCookie  = "kakao_state"
	tenantCookie = "kakao_tenant"
)

type AuthHandler struct {
	Kakao *kakao.Client
	Login *usecase.KakaoLoginUseCase
}

func NewAuthHandler(kakaoClient *kakao.Client, login *usecase.KakaoLoginUseCase) *AuthHandler {
	return &AuthHandler{Kakao: kakaoClient, Login: login}
}

// HandleLoginStart redirects the visitor to Kakao. The tenant id and a
// one-shot state token travel in short-lived cookies.
func (h *AuthHandler) HandleLoginStart(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("tenant")
	if tenantID == "" {
		writeJSON(w, http.StatusBadRequest, SubmitResponse{Success: false, Error: "잘못된 요청입니다."})
		return
	}

	state := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name: stateCookie, Value: state, Path: "/", MaxAge: 600, HttpOnly: true,
	})
	http.SetCookie(w, &http.Cookie{
		Name: tenantCookie, Value: tenantID, Path: "/", MaxAge: 600, HttpOnly: true,
	})

	http.Redirect(w, r, h.Kakao.AuthorizeURL(state), http.StatusFound)
}

// HandleCallback completes the OAuth flow and records the verified
// identity as a kakao_login lead.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	stateC, err := r.Cookie(stateCookie)
	if err != nil || code == "" || state == "" || stateC.Value != state {
		writeJSON(w, http.StatusBadRequest, SubmitResponse{Success: false, Error: "인증 정보가 올바르지 않습니다."})
		return
	}
	tenantC, err := r.Cookie(tenantCookie)
	if err != nil || tenantC.Value == "" {
		writeJSON(w, http.StatusBadRequest, SubmitResponse{Success: false, Error: "인증 정보가 올바르지 않습니다."})
		return
	}

	// State is consumed: expire both cookies so the token can't be replayed.
	clearCookie(w, stateCookie)
	clearCookie(w, tenantCookie)

	token, err := h.Kakao.ExchangeCode(r.Context(), code)
	if err != nil {
		logrus.WithError(err).Error("kakao code exchange failed")
		writeJSON(w, http.StatusBadGateway, SubmitResponse{Success: false, Error: "카카오 인증에 실패했습니다."})
		return
	}

	user, err := h.Kakao.FetchUser(r.Context(), token)
	if err != nil {
		logrus.WithError(err).Error("kakao user fetch failed")
		writeJSON(w, http.StatusBadGateway, SubmitResponse{Success: false, Error: "카카오 인증에 실패했습니다."})
		return
	}

	out, err := h.Login.Execute(r.Context(), usecase.KakaoLoginInput{
		TenantID:  tenantC.Value,
		KakaoID:   user.ID,
		Nickname:  user.Nickname,
		Email:     user.Email,
		Phone:     user.Phone,
		IP:        clientIP(r),
		UserAgent: r.UserAgent(),
	})
	if err != nil {
		if rej, ok := usecase.AsRejectError(err); ok {
			writeJSON(w, rej.Status, SubmitResponse{Success: false, Error: rej.Message})
			return
		}
		logrus.WithError(err).Error("kakao login failed")
		writeJSON(w, http.StatusInternalServerError, SubmitResponse{Success: false, Error: "일시적인 오류가 발생했습니다."})
		return
	}

	middleware.RecordKakaoLogin()
	writeJSON(w, http.StatusOK, out)
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{Name: name, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
}
