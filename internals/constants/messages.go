// file: internals/constants/messages.go

package constants

import "fmt"

// Message keys. Controllers answer with Message(lang, key).
const (
	MsgPageNotFound       = "page_not_found"
	MsgReadFailed         = "read_failed"
	MsgSaveFailed         = "save_failed"
	MsgCoupleNameRequired = "couple_name_required"
	MsgInvalidStartDate   = "invalid_start_date"
	MsgInvalidStartTime   = "invalid_start_time"
	MsgInvalidColor       = "invalid_color"
	MsgInvalidTheme       = "invalid_theme"
	MsgUnknownPlan        = "unknown_plan"
	MsgMusicNotAllowed    = "music_not_allowed"
	MsgInvalidVideoURL    = "invalid_video_url"
	MsgPaymentRequired    = "payment_required"
	MsgUnknownCoupon      = "unknown_coupon"
	MsgChargeFailed       = "charge_failed"
	MsgPaymentNotFound    = "payment_not_found"
	MsgInvalidEditAuth    = "invalid_edit_credentials"
	MsgPageCreated        = "page_created"
	MsgPageUpdated        = "page_updated"
	MsgImagesAttached     = "images_attached"
	MsgShareMessage       = "share_message"
)

var messages = map[string]map[string]string{
	LangPT: {
		MsgPageNotFound:       "Página não encontrada.",
		MsgReadFailed:         "Não foi possível carregar a página. Tente novamente.",
		MsgSaveFailed:         "Não foi possível salvar. Tente novamente em instantes.",
		MsgCoupleNameRequired: "Informe o nome do casal.",
		MsgInvalidStartDate:   "Data de início inválida.",
		MsgInvalidStartTime:   "Horário de início inválido.",
		MsgInvalidColor:       "Cor inválida.",
		MsgInvalidTheme:       "Tema inválido.",
		MsgUnknownPlan:        "Plano desconhecido.",
		MsgMusicNotAllowed:    "Seu plano não permite música.",
		MsgInvalidVideoURL:    "Link do YouTube inválido.",
		MsgPaymentRequired:    "Pagamento não confirmado.",
		MsgUnknownCoupon:      "Cupom inválido.",
		MsgChargeFailed:       "Não foi possível gerar o PIX. Tente novamente.",
		MsgPaymentNotFound:    "Pagamento não encontrado.",
		MsgInvalidEditAuth:    "Credenciais de edição inválidas.",
		MsgPageCreated:        "Página criada com sucesso!",
		MsgPageUpdated:        "Página atualizada com sucesso!",
		MsgImagesAttached:     "Fotos enviadas.",
		MsgShareMessage:       "%s, nossa história para sempre: %s",
	},
	LangEN: {
		MsgPageNotFound:       "Page not found.",
		MsgReadFailed:         "Could not load the page. Please try again.",
		MsgSaveFailed:         "Could not save. Please try again shortly.",
		MsgCoupleNameRequired: "Couple name is required.",
		MsgInvalidStartDate:   "Invalid start date.",
		MsgInvalidStartTime:   "Invalid start time.",
		MsgInvalidColor:       "Invalid color.",
		MsgInvalidTheme:       "Invalid theme.",
		MsgUnknownPlan:        "Unknown plan.",
		MsgMusicNotAllowed:    "Your plan does not include music.",
		MsgInvalidVideoURL:    "Invalid YouTube link.",
		MsgPaymentRequired:    "Payment not confirmed.",
		MsgUnknownCoupon:      "Invalid coupon.",
		MsgChargeFailed:       "Could not create the payment. Please try again.",
		MsgPaymentNotFound:    "Payment not found.",
		MsgInvalidEditAuth:    "Invalid edit credentials.",
		MsgPageCreated:        "Page created!",
		MsgPageUpdated:        "Page updated!",
		MsgImagesAttached:     "Photos uploaded.",
		MsgShareMessage:       "%s, our story forever: %s",
	},
	LangES: {
		MsgPageNotFound:       "Página no encontrada.",
		MsgReadFailed:         "No se pudo cargar la página. Inténtalo de nuevo.",
		MsgSaveFailed:         "No se pudo guardar. Inténtalo de nuevo en unos instantes.",
		MsgCoupleNameRequired: "Indica el nombre de la pareja.",
		MsgInvalidStartDate:   "Fecha de inicio inválida.",
		MsgInvalidStartTime:   "Hora de inicio inválida.",
		MsgInvalidColor:       "Color inválido.",
		MsgInvalidTheme:       "Tema inválido.",
		MsgUnknownPlan:        "Plan desconocido.",
		MsgMusicNotAllowed:    "Tu plan no incluye música.",
		MsgInvalidVideoURL:    "Enlace de YouTube inválido.",
		MsgPaymentRequired:    "Pago no confirmado.",
		MsgUnknownCoupon:      "Cupón inválido.",
		MsgChargeFailed:       "No se pudo generar el pago. Inténtalo de nuevo.",
		MsgPaymentNotFound:    "Pago no encontrado.",
		MsgInvalidEditAuth:    "Credenciales de edición inválidas.",
		MsgPageCreated:        "¡Página creada!",
		MsgPageUpdated:        "¡Página actualizada!",
		MsgImagesAttached:     "Fotos subidas.",
		MsgShareMessage:       "%s, nuestra historia para siempre: %s",
	},
}

// Message returns the text for key in lang, falling back to pt-BR and then to the key itself.
func Message(lang, key string) string {
	if m, ok := messages[ResolveLang(lang)]; ok {
		if s, ok := m[key]; ok {
			return s
		}
	}
	if s, ok := messages[DefaultLang][key]; ok {
		return s
	}
	return key
}

func ShareMessage(lang, coupleName, url string) string {
	return fmt.Sprintf(Message(lang, MsgShareMessage), coupleName, url)
}
