package handler

import (
	"net/http"
)

// ServeLogo entrega a imagem do logo exibida no sidebar
func ServeLogo(logoPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, logoPath)
	}
}
