package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const yamlRules = `
recipes:
  cheaper-bread:
    when:
      result: bread
    ignore-removed: true
    do:
      ingredient-0: amount -1
      max-uses: "*2"
      villager:
        level: "+1"
        name:
  no-mending:
    expr: 'fields["result"].material == "mending_book"'
    do:
      remove: true
`

func TestLoadYAML_PreservesOrder(t *testing.T) {
	result, errs := LoadYAML("rules.yml", []byte(yamlRules))
	require.Empty(t, errs)
	require.NotNil(t, result)
	require.Len(t, result.Rules, 2)

	bread := result.Rules[0]
	assert.Equal(t, "cheaper-bread", bread.ID)
	assert.True(t, bread.IgnoreRemoved)
	assert.Equal(t, []string{"result"}, bread.When.Keys())
	assert.Equal(t, []string{"ingredient-0", "max-uses", "villager"}, bread.Do.Keys())
	assert.Equal(t, "rules.yml:3:3", bread.Pos)

	villager, ok := bread.Do.Lookup("villager")
	require.True(t, ok)
	require.True(t, villager.IsNested())
	assert.Equal(t, []string{"level", "name"}, villager.Nested.Keys())

	level, _ := villager.Nested.Lookup("level")
	assert.Equal(t, "+1", level.Text)
	name, _ := villager.Nested.Lookup("name")
	assert.True(t, name.Null)

	mending := result.Rules[1]
	assert.Equal(t, "no-mending", mending.ID)
	assert.False(t, mending.IgnoreRemoved)
	assert.Equal(t, `fields["result"].material == "mending_book"`, mending.Expr)
	assert.Empty(t, mending.When)
}

func TestLoadYAML_BadRuleIsDroppedAlone(t *testing.T) {
	data := `
recipes:
  first:
    do: { uses: 1 }
  broken:
    ignore-removed: maybe
    do: { uses: 2 }
  no-actions:
    when: { uses: 1 }
  listy:
    do:
      uses: [1, 2]
  last:
    do: { uses: 3 }
  first:
    do: { uses: 4 }
`
	result, errs := LoadYAML("rules.yml", []byte(data))
	require.NotNil(t, result)
	assert.Equal(t, []string{"first", "last"}, ruleIDs(result))

	require.Len(t, errs, 4)
	for _, err := range errs {
		var le *LoadError
		require.ErrorAs(t, err, &le)
		assert.Equal(t, ErrCodeRule, le.Code)
		assert.False(t, IsFileError(err))
	}
	assert.Contains(t, errs[0].Error(), `rule "broken"`)
	assert.Contains(t, errs[1].Error(), `requires a "do" block`)
	assert.Contains(t, errs[2].Error(), "must be a scalar or a mapping")
	assert.Contains(t, errs[3].Error(), "duplicate rule id")
}

func TestLoadYAML_FileErrors(t *testing.T) {
	_, errs := LoadYAML("bad.yml", []byte("recipes: [\n"))
	require.Len(t, errs, 1)
	assert.True(t, IsFileError(errs[0]))

	_, errs = LoadYAML("list.yml", []byte("- a\n- b\n"))
	require.Len(t, errs, 1)
	assert.True(t, IsFileError(errs[0]))

	result, errs := LoadYAML("empty.yml", nil)
	assert.Empty(t, errs)
	assert.Empty(t, result.Rules)

	result, errs = LoadYAML("other.yml", []byte("settings: {}\n"))
	assert.Empty(t, errs)
	assert.Empty(t, result.Rules)
}

const cueRules = `
recipes: {
	"cheaper-bread": {
		when: result: "bread"
		"ignore-removed": true
		do: {
			"ingredient-0": "amount -1"
			"max-uses":     "*2"
			villager: level: "+1"
			"award-experience": false
			uses: 3
			"villager.name": null
		}
	}
	"no-mending": {
		expr: "fields[\"result\"].material == \"mending_book\""
		do: remove: true
	}
	broken: {
		do: uses: 1.5
	}
}
`

func TestLoadCUE(t *testing.T) {
	result, errs := LoadCUE("rules.cue", []byte(cueRules))
	require.NotNil(t, result)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), `rule "broken"`)

	require.Equal(t, []string{"cheaper-bread", "no-mending"}, ruleIDs(result))

	bread := result.Rules[0]
	assert.True(t, bread.IgnoreRemoved)
	assert.Equal(t,
		[]string{"ingredient-0", "max-uses", "villager", "award-experience", "uses", "villager.name"},
		bread.Do.Keys())

	uses, _ := bread.Do.Lookup("uses")
	assert.Equal(t, "3", uses.Text)
	award, _ := bread.Do.Lookup("award-experience")
	assert.Equal(t, "false", award.Text)
	name, _ := bread.Do.Lookup("villager.name")
	assert.True(t, name.Null)
	villager, _ := bread.Do.Lookup("villager")
	assert.Equal(t, "{level: +1}", villager.Nested.String())

	assert.Equal(t, `fields["result"].material == "mending_book"`, result.Rules[1].Expr)
}

func TestLoadCUE_SyntaxError(t *testing.T) {
	result, errs := LoadCUE("bad.cue", []byte("recipes: {"))
	assert.Nil(t, result)
	require.Len(t, errs, 1)
	assert.True(t, IsFileError(errs[0]))
}

func TestLoadFile_DispatchesByExtension(t *testing.T) {
	dir := t.TempDir()

	yml := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(yml, []byte(yamlRules), 0o644))
	result, errs := LoadFile(yml)
	require.Empty(t, errs)
	assert.Len(t, result.Rules, 2)

	cue := filepath.Join(dir, "rules.cue")
	require.NoError(t, os.WriteFile(cue, []byte(cueRules), 0o644))
	result, _ = LoadFile(cue)
	assert.Len(t, result.Rules, 2)

	txt := filepath.Join(dir, "rules.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	result, errs = LoadFile(txt)
	assert.Nil(t, result)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Error(), "unsupported rule file extension")

	result, errs = LoadFile(filepath.Join(dir, "missing.yml"))
	assert.Nil(t, result)
	require.Len(t, errs, 1)
	assert.True(t, IsFileError(errs[0]))
}

func TestLoadYAML_NormalizesKeys(t *testing.T) {
	// Decomposed "e" + combining acute accent in both key and value.
	data := "recipes:\n  cafe\u0301:\n    do:\n      villager.name: Jose\u0301\n"
	result, errs := LoadYAML("rules.yml", []byte(data))
	require.Empty(t, errs)
	require.Len(t, result.Rules, 1)

	assert.Equal(t, "caf\u00e9", result.Rules[0].ID)
	assert.Equal(t, "Jos\u00e9", result.Rules[0].Do[0].Text)
}

func TestBlockHelpers(t *testing.T) {
	block := Block{T("uses", "1"), N("villager", T("level", "2")), Null("name"), N("empty")}

	assert.Equal(t, "{uses: 1, villager: {level: 2}, name: null, empty: {}}", block.String())
	assert.True(t, block[3].IsNested())
	assert.Equal(t, "{...}", block[1].Value())

	_, ok := block.Lookup("missing")
	assert.False(t, ok)
}

func ruleIDs(r *Result) []string {
	ids := make([]string, len(r.Rules))
	for i, rule := range r.Rules {
		ids[i] = rule.ID
	}
	return ids
}
