package i18n

var ptBRCatalog = &Catalog{
	locale: "pt-BR",
	messages: map[Code]string{
		CodeUnknown:        "Algo deu errado ao falar com o autenticador",
		CodeCancelled:      "A solicitação de passkey foi cancelada",
		CodeDOM:            "O autenticador rejeitou a solicitação{{if .dom_error}} ({{.dom_error}}){{end}}",
		CodeUnsupported:    "Passkeys não são suportadas neste dispositivo",
		CodeTimeout:        "A solicitação de passkey expirou",
		CodeNoCredential:   "Nenhuma passkey está disponível para esta conta",
		CodeInvalidInput:   "A solicitação está sem campos obrigatórios",
		CodeRPIDValidation: "Este aplicativo não está autorizado para o site solicitado",
	},
}
