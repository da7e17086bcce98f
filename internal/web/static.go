package web

import "net/http"

func serveCSS(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(`body{font-family:system-ui,Segoe UI,Roboto,Arial,sans-serif;margin:0;background:#f6f7f9;color:#1f2328}
a{color:#0b62d6;text-decoration:none} a:hover{text-decoration:underline}
header{display:flex;align-items:center;justify-content:space-between;padding:12px 20px;border-bottom:1px solid #d8dde3;background:#fff}
header nav a{margin-right:14px}
.container{max-width:1100px;margin:0 auto;padding:20px}
table{width:100%;border-collapse:collapse;border:1px solid #d8dde3;background:#fff}
th,td{padding:10px;border-bottom:1px solid #e4e8ec} th{text-align:left;background:#eef1f4}
td.num,th.num{text-align:right;font-variant-numeric:tabular-nums}
.btn{display:inline-block;padding:8px 12px;border:1px solid #c6ccd3;background:#fff;color:#1f2328;border-radius:6px;cursor:pointer}
.btn-primary{background:#0b62d6;border-color:#0b62d6;color:#fff} .btn-danger{background:#c62828;border-color:#c62828;color:#fff}
input,textarea,select{width:100%;padding:8px;border:1px solid #c6ccd3;border-radius:6px;box-sizing:border-box}
form.inline{display:inline} form.inline .btn{width:auto}
.grid{display:grid;gap:16px} .cols-2{grid-template-columns:1fr 1fr}
.card{border:1px solid #d8dde3;border-radius:10px;padding:16px;background:#fff}
.field{margin-bottom:12px} .field label{display:block;margin-bottom:4px;font-weight:600}
.error{color:#c62828} .field .error{font-size:.9em}
.alert{padding:10px 14px;border-radius:6px;margin-bottom:14px}
.alert-error{background:#fdecea;color:#8a1c1c} .alert-success{background:#e8f5e9;color:#1b5e20}
.small{opacity:.7}`))
}
