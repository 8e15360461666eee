// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const routedControllerSrc = `
angular.module('app', ['ngRoute']);
angular.module('app').controller('MainCtrl', function() {});
angular.module('app').config(['$routeProvider', function($routeProvider) {
  $routeProvider.when('/home', {
    templateUrl: 'views/home.html',
    controller: 'MainCtrl'
  });
}]);
`

func TestCodeLens_ControllerLinksToRouteTemplate(t *testing.T) {
	_, idx := parseJS(t, routedControllerSrc, "app.js")
	r := New(idx)

	lenses := r.CodeLens("app.js")
	require.NotEmpty(t, lenses)

	var found bool
	for _, l := range lenses {
		if len(l.Locations) > 0 {
			found = true
		}
	}
	assert.True(t, found)
}

func TestCodeLens_TemplateLinksBackToController(t *testing.T) {
	_, idx := parseJS(t, routedControllerSrc, "app.js")
	r := New(idx)

	lenses := r.CodeLens("views/home.html")
	require.NotEmpty(t, lenses)
	assert.Equal(t, "1 controller", lenses[0].Title)
}

func TestCodeLens_NoBindingsReturnsEmpty(t *testing.T) {
	_, idx := parseJS(t, diSource, "app.js")
	r := New(idx)

	lenses := r.CodeLens("app.js")
	assert.Empty(t, lenses)
}
