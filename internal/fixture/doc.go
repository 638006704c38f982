/*
Package fixture loads declaration sets from YAML or JSONC documents.

A document lists the package order, the include entrypoints and, per file,
the statements the Fusion parser would have produced:

	packageOrder: [Neos.Fusion, Acme.Site]
	entrypoints:
	  Acme.Site: Root.fusion
	files:
	  - package: Acme.Site
	    resource: Root.fusion
	    statements:
	      - include: Components/*.fusion
	      - path: page.title
	        value: Hello
	      - prototype: Acme.Site:Page
	        extends: Neos.Fusion:Template
	        statements:
	          - path: title
	            value: Default

Nested statements are rooted at their parent path, the way a block is in
Fusion source. Code indices follow statement order depth-first.
*/
package fixture
