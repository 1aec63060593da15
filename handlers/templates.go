package handlers

import (
	"html/template"

	"payment-form/models"
)

var formTemplate = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Payment Details</title>
<style>
body { font-family: sans-serif; background: #f4f5f7; }
.payment-form { max-width: 420px; margin: 40px auto; padding: 24px; background: #fff; border-radius: 8px; }
.form-row { display: flex; gap: 12px; }
.form-group { display: flex; flex-direction: column; margin-bottom: 14px; flex: 1; }
.error, .submit-error { color: #c0392b; font-size: 0.85em; }
.submit-btn { width: 100%; padding: 10px; }
</style>
</head>
<body>
<form method="post" action="/pay" class="payment-form" id="payment-form">
  <h2>Payment Details</h2>
  {{if .SubmitError}}<p class="submit-error">{{.SubmitError}}</p>{{end}}

  <div class="form-row">
    <div class="form-group">
      <label for="amount">Amount</label>
      <input type="text" id="amount" name="amount" value="{{.Fields.Amount}}" placeholder="0.00">
      {{with index .Errors "amount"}}<span class="error">{{.}}</span>{{end}}
    </div>
    <div class="form-group">
      <label for="currency">Currency</label>
      <select id="currency" name="currency">
        {{range .Currencies}}<option value="{{.}}"{{if eq . $.Fields.Currency}} selected{{end}}>{{.}}</option>{{end}}
      </select>
      {{with index .Errors "currency"}}<span class="error">{{.}}</span>{{end}}
    </div>
  </div>

  <div class="form-group">
    <label for="cardNumber">Card Number</label>
    <input type="text" id="cardNumber" name="cardNumber" value="{{.Fields.CardNumber}}" placeholder="1234 5678 9012 3456" maxlength="19" autocomplete="cc-number">
    {{with index .Errors "cardNumber"}}<span class="error">{{.}}</span>{{end}}
  </div>

  <div class="form-row">
    <div class="form-group">
      <label for="expiryDate">Expiry Date</label>
      <input type="text" id="expiryDate" name="expiryDate" value="{{.Fields.ExpiryDate}}" placeholder="MM/YY" maxlength="5" autocomplete="cc-exp">
      {{with index .Errors "expiryDate"}}<span class="error">{{.}}</span>{{end}}
    </div>
    <div class="form-group">
      <label for="securityCode">CVV/CVC</label>
      <input type="password" id="securityCode" name="securityCode" placeholder="123" maxlength="4" autocomplete="cc-csc">
      {{with index .Errors "securityCode"}}<span class="error">{{.}}</span>{{end}}
    </div>
  </div>

  <div class="form-group">
    <label for="cardHolderName">Cardholder Name</label>
    <input type="text" id="cardHolderName" name="cardHolderName" value="{{.Fields.CardHolderName}}" placeholder="John Doe" autocomplete="cc-name">
    {{with index .Errors "cardHolderName"}}<span class="error">{{.}}</span>{{end}}
  </div>

  <div class="form-group">
    <label><input type="checkbox" name="rememberCard"{{if .Fields.RememberCard}} checked{{end}}> Remember card</label>
  </div>

  <input type="hidden" name="colorDepth" id="colorDepth">
  <input type="hidden" name="timezoneOffset" id="timezoneOffset">

  <button type="submit" class="submit-btn" id="submit-btn"{{if .Submitting}} disabled{{end}}>
    {{if .Submitting}}Processing...{{else}}Make Payment{{end}}
  </button>
</form>
<script>
(function () {
  var form = document.getElementById("payment-form");

  ["amount", "cardNumber", "expiryDate", "securityCode"].forEach(function (name) {
    var input = document.getElementById(name);
    input.addEventListener("input", function () {
      fetch("/api/format", {
        method: "POST",
        headers: {"Content-Type": "application/json"},
        body: JSON.stringify({field: name, value: input.value})
      }).then(function (r) { return r.json(); })
        .then(function (body) { input.value = body.value; });
    });
  });

  function viewport() {
    fetch("/api/viewport", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({width: window.innerWidth, height: window.innerHeight})
    });
  }
  window.addEventListener("resize", viewport);
  viewport();

  document.getElementById("colorDepth").value = window.screen.colorDepth;
  document.getElementById("timezoneOffset").value = new Date().getTimezoneOffset();

  form.addEventListener("submit", function () {
    var btn = document.getElementById("submit-btn");
    btn.disabled = true;
    btn.textContent = "Processing...";
  });
})();
</script>
</body>
</html>
`))

var resultTemplate = template.Must(template.New("result").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body>
<div class="payment-form">
  <h2>{{.Title}}</h2>
  <p>{{.Message}}</p>
  <form method="post" action="/reset"><button type="submit">New payment</button></form>
</div>
</body>
</html>
`))

type formPage struct {
	Fields      models.FormFields
	Errors      map[string]string
	Currencies  []string
	SubmitError string
	Submitting  bool
}

type resultPage struct {
	Title   string
	Message string
}
