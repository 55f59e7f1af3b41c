package ledger

const transactionTemplate = `{{ date .Date }} {{ .Flag }} {{ if .Payee }}"{{ .Payee }}" {{ end }}"{{ .Narration }}"
{{- range $k, $v := .Meta }}
    {{ $k }}: "{{ $v }}"
{{- end }}
{{- range .Postings }}
    {{ .Account }}{{ if .Units }}  {{ amount .Units }}{{ with .Cost }} {{ cost . }}{{ end }}{{ with .Price }} @ {{ amount . }}{{ end }}{{ end }}
{{- range $k, $v := .Meta }}
        {{ $k }}: "{{ $v }}"
{{- end }}
{{- end }}

`

const balanceTemplate = `{{ date .Date }} balance {{ .Account }}  {{ amount .Amount }}

`

const priceTemplate = `{{ date .Date }} price {{ .Commodity }}  {{ amount .Amount }}

`
