package handlers

import "net/http"

type TablesResponse struct {
	CountTables int `json:"countTables"`
}

// Tables возвращает число таблиц в базе. Смоук-проверка миграций.
//
//	@Summary	Число таблиц в БД
//	@Tags		system
//	@Produce	json
//	@Success	200	{object}	TablesResponse
//	@Failure	500	{object}	ErrorResponse
//	@Router		/tables [get]
func (h *Handlers) Tables(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", CodeMethodNotAllowed, http.StatusMethodNotAllowed)
		return
	}

	count, err := h.TablesService.GetCountTablesDB(r.Context())
	if err != nil {
		WriteError(w, err.Error(), CodeInternal, http.StatusInternalServerError)
		return
	}

	writeSuccess(w, TablesResponse{CountTables: count}, http.StatusOK)
}
