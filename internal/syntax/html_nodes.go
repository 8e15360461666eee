// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package syntax

// HTML tree-sitter node type constants, used by the Template Analyzer
// to walk ng-* attributes and interpolation expressions without a
// query-language layer.
const (
	HTMLDocument             = "document"
	HTMLElement              = "element"
	HTMLStartTag             = "start_tag"
	HTMLEndTag               = "end_tag"
	HTMLSelfClosingTag       = "self_closing_tag"
	HTMLTagName              = "tag_name"
	HTMLAttribute            = "attribute"
	HTMLAttributeName        = "attribute_name"
	HTMLAttributeValue       = "attribute_value"
	HTMLQuotedAttributeValue = "quoted_attribute_value"
	HTMLText                 = "text"
	HTMLComment              = "comment"
	HTMLErrorNode            = "ERROR"
)
