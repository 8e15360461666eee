// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package extractor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angularjs-lsp/angularjs-lsp/internal/model"
	"github.com/angularjs-lsp/angularjs-lsp/internal/syntax"
)

func extract(t *testing.T, src string) *model.FileRecord {
	t.Helper()
	tree, err := syntax.NewJSParser().Parse(context.Background(), []byte(src), "test.js")
	require.NoError(t, err)
	t.Cleanup(tree.Close)

	record, err := New().Extract(context.Background(), tree)
	require.NoError(t, err)
	return record
}

func findSymbol(record *model.FileRecord, kind model.SymbolKind, name string) *model.Symbol {
	for i := range record.Symbols {
		if record.Symbols[i].Kind == kind && record.Symbols[i].Name == name {
			return &record.Symbols[i]
		}
	}
	return nil
}

func findOwnedSymbol(record *model.FileRecord, kind model.SymbolKind, name, ownerID string) *model.Symbol {
	for i := range record.Symbols {
		s := &record.Symbols[i]
		if s.Kind == kind && s.Name == name && s.OwnerSymbolID == ownerID {
			return s
		}
	}
	return nil
}

func TestExtract_ModuleDeclarationVsExtend(t *testing.T) {
	record := extract(t, `
angular.module('app', ['ngRoute']);
angular.module('app').controller('MainCtrl', function() {});
`)
	// One record for the declaration and one for the extend-form handle.
	require.Len(t, record.Modules, 2)
	assert.Equal(t, "app", record.Modules[0].Name)
	assert.True(t, record.Modules[0].Declared)
	assert.Equal(t, []string{"ngRoute"}, record.Modules[0].Dependencies)

	ctrl := findSymbol(record, model.KindController, "MainCtrl")
	require.NotNil(t, ctrl)
	assert.Equal(t, "app", ctrl.OwnerModule)
}

func TestExtract_ArrayDIShape(t *testing.T) {
	record := extract(t, `
angular.module('app', []).controller('MainCtrl', ['$scope', '$http', function($scope, $http) {
  $scope.name = 'hi';
}]);
`)
	ctrl := findSymbol(record, model.KindController, "MainCtrl")
	require.NotNil(t, ctrl)
	assert.Equal(t, []string{"$scope", "$http"}, ctrl.Dependencies)

	prop := findSymbol(record, model.KindScopeProperty, "name")
	require.NotNil(t, prop)
	assert.Equal(t, ctrl.ID, prop.OwnerSymbolID)
}

func TestExtract_InjectAnnotationShape(t *testing.T) {
	record := extract(t, `
angular.module('app', []).controller('MainCtrl', MainCtrl);
function MainCtrl($scope) {
  $scope.greet = function() {};
}
MainCtrl.$inject = ['$scope'];
`)
	ctrl := findSymbol(record, model.KindController, "MainCtrl")
	require.NotNil(t, ctrl)
	assert.Equal(t, []string{"$scope"}, ctrl.Dependencies)

	method := findSymbol(record, model.KindScopeMethod, "greet")
	require.NotNil(t, method)
}

func TestExtract_BareParameterShape(t *testing.T) {
	record := extract(t, `
angular.module('app', []).service('UserService', function($http) {
  this.fetch = function() {};
});
`)
	svc := findSymbol(record, model.KindService, "UserService")
	require.NotNil(t, svc)
	assert.Equal(t, []string{"$http"}, svc.Dependencies)
}

func TestExtract_ClassConstructorShape(t *testing.T) {
	record := extract(t, `
angular.module('app', []).controller('MainCtrl', MainCtrl);
class MainCtrl {
  static $inject = ['$scope'];
  constructor($scope) {
    $scope.title = 'x';
  }
}
`)
	ctrl := findSymbol(record, model.KindController, "MainCtrl")
	require.NotNil(t, ctrl)
	assert.Equal(t, []string{"$scope"}, ctrl.Dependencies)
}

func TestExtract_ControllerAsAliasing(t *testing.T) {
	record := extract(t, `
angular.module('app', []).controller('MainCtrl', function() {
  var vm = this;
  vm.title = 'hello';
  vm.save = function() {};
});
`)
	title := findSymbol(record, model.KindControllerAsProperty, "title")
	require.NotNil(t, title)
	save := findSymbol(record, model.KindControllerAsMethod, "save")
	require.NotNil(t, save)
}

func TestExtract_RootScopeIsGlobalKind(t *testing.T) {
	record := extract(t, `
angular.module('app', []).controller('MainCtrl', function($rootScope) {
  $rootScope.currentUser = null;
});
`)
	prop := findSymbol(record, model.KindRootScopeProperty, "currentUser")
	require.NotNil(t, prop)
}

func TestExtract_WatchOnBroadcastEmitAreReferencesOnly(t *testing.T) {
	record := extract(t, `
angular.module('app', []).controller('MainCtrl', ['$scope', function($scope) {
  $scope.$watch('someValue', function() {});
  $scope.$on('someEvent', function() {});
}]);
`)
	assert.Nil(t, findSymbol(record, model.KindScopeProperty, "someValue"))
	var sawWatch, sawEvent bool
	for _, ref := range record.References {
		if ref.ReferencedName == "someValue" {
			sawWatch = true
		}
		if ref.ReferencedName == "someEvent" {
			sawEvent = true
		}
	}
	assert.True(t, sawWatch)
	assert.True(t, sawEvent)
}

func TestExtract_RouteBinding(t *testing.T) {
	record := extract(t, `
angular.module('app', []).config(function($routeProvider) {
  $routeProvider.when('/home', {
    controller: 'HomeCtrl',
    templateUrl: 'home.html'
  });
});
`)
	route := findSymbol(record, model.KindRouteBinding, "/home")
	require.NotNil(t, route)
	require.NotNil(t, route.Metadata.RouteBinding)
	assert.Equal(t, "HomeCtrl", route.Metadata.RouteBinding.ControllerName)
	assert.Equal(t, "home.html", route.Metadata.RouteBinding.TemplateURL)
}

func TestExtract_ConstantValueAndDecorator(t *testing.T) {
	record := extract(t, `
angular.module('app', [])
  .constant('API_URL', '/api')
  .value('config', {})
  .decorator('$log', function($delegate) { return $delegate; });
`)
	c := findSymbol(record, model.KindConstant, "API_URL")
	require.NotNil(t, c)
	v := findSymbol(record, model.KindValue, "config")
	require.NotNil(t, v)

	var sawDecoratorRef bool
	for _, ref := range record.References {
		if ref.ReferencedName == "$log" {
			sawDecoratorRef = true
		}
	}
	assert.True(t, sawDecoratorRef)
}

func TestExtract_DirectiveMetadata(t *testing.T) {
	record := extract(t, `
angular.module('app', []).directive('myThing', function() {
  return {
    restrict: 'AE',
    scope: {}
  };
});
`)
	d := findSymbol(record, model.KindDirective, "myThing")
	require.NotNil(t, d)
	require.NotNil(t, d.Metadata.Directive)
	assert.Equal(t, "AE", d.Metadata.Directive.Restrict)
	assert.True(t, d.Metadata.Directive.IsolateScope)
}

func TestExtract_ComponentMetadata(t *testing.T) {
	record := extract(t, `
angular.module('app', []).component('myWidget', {
  controller: 'WidgetCtrl',
  controllerAs: 'vm',
  templateUrl: 'widget.html',
  bindings: { value: '=', onChange: '&' }
});
`)
	c := findSymbol(record, model.KindComponent, "myWidget")
	require.NotNil(t, c)
	require.NotNil(t, c.Metadata.Component)
	assert.Equal(t, "WidgetCtrl", c.Metadata.Component.ControllerRef)
	assert.Equal(t, "vm", c.Metadata.Component.ControllerAs)
	assert.Equal(t, "widget.html", c.Metadata.Component.TemplateURL)
	assert.Equal(t, "=", c.Metadata.Component.Bindings["value"])
	assert.Equal(t, "&", c.Metadata.Component.Bindings["onChange"])

	value := findOwnedSymbol(record, model.KindControllerAsProperty, "value", c.ID)
	require.NotNil(t, value, "a bindings entry must synthesize a ControllerAsProperty Symbol")
	onChange := findOwnedSymbol(record, model.KindControllerAsProperty, "onChange", c.ID)
	require.NotNil(t, onChange)
}

func TestExtract_ComponentBindings_ControllerAsDefaultsToCtrl(t *testing.T) {
	record := extract(t, `
angular.module('app', []).component('myWidget', {
  bindings: { value: '=' }
});
`)
	c := findSymbol(record, model.KindComponent, "myWidget")
	require.NotNil(t, c)
	require.NotNil(t, c.Metadata.Component)
	assert.Equal(t, "$ctrl", c.Metadata.Component.ControllerAs)

	value := findOwnedSymbol(record, model.KindControllerAsProperty, "value", c.ID)
	require.NotNil(t, value)
}

func TestExtract_NonLiteralNameIsNonFatal(t *testing.T) {
	tree, err := syntax.NewJSParser().Parse(context.Background(), []byte(`
var name = 'MainCtrl';
angular.module('app', []).controller(name, function() {});
angular.module('app').service('GoodService', function() {});
`), "test.js")
	require.NoError(t, err)
	defer tree.Close()

	record, err := New().Extract(context.Background(), tree)
	require.Error(t, err)
	assert.Nil(t, findSymbol(record, model.KindController, "MainCtrl"))
	assert.NotNil(t, findSymbol(record, model.KindService, "GoodService"))
}
