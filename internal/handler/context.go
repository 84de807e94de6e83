package handlers

import "net/http"

// Данные пользователя в контекст кладет middleware.AuthMiddleware.
// Ключи должны совпадать с теми, что использует middleware.

func currentUserID(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value("userID").(string)
	return userID, ok && userID != ""
}

func isAdmin(r *http.Request) bool {
	admin, _ := r.Context().Value("isAdmin").(bool)
	return admin
}

// requireUser отвечает 401, если запрос пришел без валидного токена.
func (h *Handlers) requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := currentUserID(r)
	if !ok {
		WriteError(w, "Требуется аутентификация", CodeUnauthorized, http.StatusUnauthorized)
		return "", false
	}
	return userID, true
}

// requireAdmin отвечает 401 без токена и 403 без прав администратора.
func (h *Handlers) requireAdmin(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return "", false
	}
	if !isAdmin(r) {
		WriteError(w, "Требуются права администратора", CodeForbidden, http.StatusForbidden)
		return "", false
	}
	return userID, true
}
