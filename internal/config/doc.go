// Package config loads rule files into ordered, source-independent rule entries.
//
// Rule files are YAML or CUE. Both keep declaration order, which is the order
// rules are registered and actions are applied:
//
//	recipes:
//	  cheaper-bread:
//	    when: { result: bread }
//	    ignore-removed: true
//	    do:
//	      ingredient-0: amount -1
//	      max-uses: "*2"
//	      villager:
//	        level: "+1"
//
// A problem inside one rule entry is reported for that rule only; the entry is
// dropped and every other rule still loads. Keys and text values are NFC
// normalised at this boundary.
package config
