package swagger_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/regata/internal/adapters/http/swagger"
)

func TestRegister(t *testing.T) {
	Convey("Given the docs routes", t, func() {
		r := mux.NewRouter()
		swagger.Register(nil, r)

		Convey("When fetching the ReDoc page", func() {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api-docs", nil))

			Convey("Then an HTML shell pointing at the spec comes back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get("Content-Type"), ShouldEqual, "text/html; charset=utf-8")
				So(rec.Body.String(), ShouldContainSubstring, `spec-url="/openapi.yaml"`)
			})
		})

		Convey("When fetching the OpenAPI document", func() {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/openapi.yaml", nil))

			Convey("Then the embedded spec is served", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Body.String(), ShouldContainSubstring, "openapi: 3.0.3")
				So(rec.Body.String(), ShouldContainSubstring, "/results/league/{year}")
			})
		})

		Convey("When registering on a nil router", func() {
			So(func() { swagger.Register(nil, nil) }, ShouldPanic)
		})
	})
}
