// Package validation checks flat string maps against pipe-separated rule
// strings. The application uses it to validate environment configuration
// and inspector route parameters.
//
//	v := validation.Make(map[string]string{
//	    "LOG_LEVEL":    "info",
//	    "INSPECT_PORT": "8000",
//	}, validation.Rules{
//	    "LOG_LEVEL":    "required|in:debug,info,warn,error",
//	    "INSPECT_PORT": "required|integer|gte:1|lte:65535",
//	})
//
//	if err := v.Err(); err != nil {
//	    // err is the *Errors bag; err.Error() joins the messages by field
//	}
//
// # Available Rules
//
//   - required          present and non-blank
//   - numeric, integer  parseable as float64 / int
//   - boolean           accepted by strconv.ParseBool
//   - min:n, max:n      UTF-8 length bounds
//   - gte:n, lte:n      numeric bounds
//   - in:a,b / not_in:a,b
//   - alpha_num, alpha_dash
//   - regex:pattern
//   - nullable          an empty value skips the remaining rules
//
// Rules for a field stop at the first failure.
//
// # Error Bag
//
//	{
//	  "errors": {
//	    "LOG_LEVEL": ["The selected LOG_LEVEL is invalid."]
//	  }
//	}
package validation
