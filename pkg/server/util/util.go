/*
Copyright 2026 Nscale.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package util

import (
	"encoding/json"
	goerrors "errors"
	"net/http"

	"github.com/nscaledev/book-api-tests/pkg/openapi"
	"github.com/nscaledev/book-api-tests/pkg/server/errors"

	"sigs.k8s.io/controller-runtime/pkg/log"
)

// WriteJSONResponse renders a JSON body with the given status.
func WriteJSONResponse(w http.ResponseWriter, r *http.Request, code int, response any) {
	body, err := json.Marshal(response)
	if err != nil {
		errors.HandleError(w, r, errors.ServerError("unable to marshal response").WithError(err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if _, err := w.Write(body); err != nil {
		log.FromContext(r.Context()).Error(err, "failed to write response")
	}
}

// ReadJSONBody decodes a request body, anything that is not valid JSON for
// the target type is reported as unprocessable.
func ReadJSONBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		item := openapi.ValidationItem{
			Loc:  []string{"body"},
			Msg:  "JSON decode error",
			Type: "value_error.jsondecode",
		}

		var typeError *json.UnmarshalTypeError

		if goerrors.As(err, &typeError) {
			item = openapi.ValidationItem{
				Loc:  []string{"body", typeError.Field},
				Msg:  "value is not a valid " + typeError.Type.String(),
				Type: "type_error." + typeError.Type.String(),
			}
		}

		return errors.HTTPUnprocessableEntity(item).WithError(err)
	}

	return nil
}
