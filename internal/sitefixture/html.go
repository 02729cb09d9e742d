package sitefixture

import "html/template"

// Option lists rendered by the replica. They match the live form.
var (
	HearAboutOptions = []string{"Recommendation", "Google", "Clutch", "LinkedIn", "Facebook", "Instagram"}
	BudgetOptions    = []string{"Up to €50.000", "€50.000 to €100.000", "€100.000 to €250.000", "Over €250.000", "Can’t disclose"}
	Services         = []string{
		"Custom Software Development",
		"Enterprise Application Modernization",
		"Team Extension",
		"Product Discovery",
		"Technology Discovery",
		"AI Discovery",
		"Ideation Workshop",
		"Business Process Consulting",
		"Requirements Consulting",
		"Scrum Coaching",
		"UX/UI Design",
		"User Research",
		"Design Systems",
		"Proof of Concept",
		"Minimum Viable Product",
		"Okta CIC Platform Integration",
		"Camunda BPM Platform Integration",
	}
)

type pageData struct {
	Errors    []string
	Values    map[string]string
	HearAbout []string
	Budgets   []string
	Services  []string
}

var contactTemplate = template.Must(template.New("contact").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(`<!DOCTYPE html>
<html>
<head>
<title>Contact | Notch</title>
<style>
	body { font-family: sans-serif; max-width: 800px; margin: 40px auto; padding-bottom: 120px; }
	.gfield { margin-bottom: 16px; }
	.gfield input[type=text], .gfield input[type=email], .gfield input[type=tel], textarea { width: 100%; }
	.chosen-container { position: relative; width: 300px; }
	.chosen-single { display: block; border: 1px solid #999; padding: 4px; }
	.chosen-drop { display: none; border: 1px solid #999; }
	.chosen-with-drop .chosen-drop { display: block; }
	.chosen-results { list-style: none; margin: 0; padding: 0; }
	.chosen-results li { padding: 4px; cursor: pointer; }
	.validation_error { color: #c00; }
	#cookie-law-info-bar { position: fixed; bottom: 0; left: 0; right: 0; background: #222; color: #fff; padding: 12px; }
</style>
</head>
<body>
<h1>Let's talk</h1>
{{if .Errors}}<div class="validation_error">{{range .Errors}}<p>{{.}}</p>{{end}}</div>{{end}}
<form method="post" action="/contact/" id="gform_2">
	<div class="gfield"><label>First name</label><input type="text" name="input_5" value="{{index .Values "input_5"}}"></div>
	<div class="gfield"><label>Last name</label><input type="text" name="input_18" value="{{index .Values "input_18"}}"></div>
	<div class="gfield"><label>Email</label><input type="email" name="input_17" value="{{index .Values "input_17"}}"></div>
	<div class="gfield"><label>Phone</label><input type="tel" name="input_8" value="{{index .Values "input_8"}}"></div>
	<div class="gfield"><label>Company</label><input type="text" name="input_11" value="{{index .Values "input_11"}}"></div>
	<div class="gfield"><label>Project details</label><textarea name="input_15" maxlength="5000">{{index .Values "input_15"}}</textarea></div>

	<div class="gfield" id="field_2_9">
		<label>How did you hear about us?</label>
		<select name="input_9" id="input_2_9" style="display:none"><option value=""></option>{{range .HearAbout}}<option value="{{.}}">{{.}}</option>{{end}}</select>
		<div class="chosen-container" id="input_2_9_chosen" data-for="input_2_9">
			<a class="chosen-single" href="#"><span>Select</span></a>
			<div class="chosen-drop"><ul class="chosen-results">{{range .HearAbout}}<li class="active-result" data-value="{{.}}">{{.}}</li>{{end}}</ul></div>
		</div>
	</div>

	<div class="gfield" id="field_2_12">
		<label>Budget</label>
		<select name="input_12" id="input_2_12" style="display:none"><option value=""></option>{{range .Budgets}}<option value="{{.}}">{{.}}</option>{{end}}</select>
		<div class="chosen-container" id="input_2_12_chosen" data-for="input_2_12">
			<a class="chosen-single" href="#"><span>Select</span></a>
			<div class="chosen-drop"><ul class="chosen-results">{{range .Budgets}}<li class="active-result" data-value="{{.}}">{{.}}</li>{{end}}</ul></div>
		</div>
	</div>

	<fieldset class="gfield" id="field_2_14">
		<legend>Services</legend>
		{{range $i, $s := .Services}}<div class="gchoice">
			<input type="checkbox" name="input_14.{{inc $i}}" value="{{$s}}" id="choice_2_14_{{inc $i}}">
			<label for="choice_2_14_{{inc $i}}">{{$s}}</label>
		</div>
		{{end}}
	</fieldset>

	<div class="gfield" id="field_2_16">
		<div class="ginput_container_consent">
			<input type="checkbox" name="input_16.1" value="1" id="input_2_16_1">
			<label for="input_2_16_1">I agree to the <a href="">privacy policy</a></label>
		</div>
	</div>

	<input type="submit" id="gform_submit_button_2" value="Send">
</form>

<div id="cookie-law-info-bar">
	We use cookies.
	<button class="cky-btn cky-btn-accept" data-cky-tag="accept-button">Accept All</button>
</div>

<script>
document.querySelectorAll('.chosen-container').forEach(function (c) {
	var sel = document.getElementById(c.dataset.for);
	c.querySelector('a.chosen-single').addEventListener('click', function (e) {
		e.preventDefault();
		c.classList.toggle('chosen-with-drop');
	});
	c.querySelectorAll('.chosen-results li').forEach(function (li) {
		li.addEventListener('click', function () {
			sel.value = li.dataset.value;
			c.querySelector('a.chosen-single span').textContent = li.textContent;
			c.classList.remove('chosen-with-drop');
		});
	});
});
document.querySelector('button.cky-btn-accept').addEventListener('click', function () {
	document.getElementById('cookie-law-info-bar').style.display = 'none';
});
</script>
</body>
</html>
`))

const thankYouPage = `<!DOCTYPE html>
<html>
<head><title>Thank you | Notch</title></head>
<body><h1>Thank you!</h1><p>Your message has been sent.</p></body>
</html>
`
