package collector

import (
	"html/template"
	"net/http"
)

// addApplicationPage es lo único que se muestra mientras no haya aplicaciones conocidas.
var addApplicationPage = template.Must(template.New("add").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Monitoring</title></head>
<body>
{{- if .Message}}
<p class="message">{{.Message}}</p>
{{- end}}
<h2>Add an application</h2>
<form method="post" action="">
<label>Application name <input type="text" name="appName" size="20"></label><br>
<label>Node URLs (comma separated) <input type="text" name="appUrls" size="80"></label><br>
<input type="submit" value="Add">
</form>
</body>
</html>
`))

type addApplicationData struct {
	Message string
}

func writeAddApplicationPage(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = addApplicationPage.Execute(w, addApplicationData{Message: message})
}
