package generation

import (
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// SelectionTestSuite covers the composer's selection operations
type SelectionTestSuite struct {
	suite.Suite
	selection *SelectionState
}

func (suite *SelectionTestSuite) SetupTest() {
	suite.selection = NewSelectionState()
}

func (suite *SelectionTestSuite) TestDefaults() {
	snap := suite.selection.Snapshot()

	assert.Empty(suite.T(), snap.Ingredients)
	assert.Empty(suite.T(), snap.DietaryFilters)
	assert.Equal(suite.T(), DefaultSpiceLevel, snap.SpiceLevel)
	assert.Equal(suite.T(), DefaultPortions, snap.Portions)
	assert.Equal(suite.T(), "", snap.Cuisine)
}

func (suite *SelectionTestSuite) TestToggleIngredient() {
	suite.Run("FirstToggle_ShouldSelect", func() {
		assert.True(suite.T(), suite.selection.ToggleIngredient("Chicken"))
		assert.Equal(suite.T(), []string{"Chicken"}, suite.selection.Ingredients())
	})

	suite.Run("SecondToggle_ShouldDeselect", func() {
		assert.False(suite.T(), suite.selection.ToggleIngredient("Chicken"))
		assert.Empty(suite.T(), suite.selection.Ingredients())
	})

	suite.Run("InsertionOrder_ShouldBePreserved", func() {
		suite.selection.ToggleIngredient("Rice")
		suite.selection.ToggleIngredient("Garlic")
		suite.selection.ToggleIngredient("Onion")
		suite.selection.ToggleIngredient("Garlic")
		suite.selection.ToggleIngredient("Garlic")

		assert.Equal(suite.T(), []string{"Rice", "Onion", "Garlic"}, suite.selection.Ingredients())
	})

	suite.Run("EmptyItem_ShouldBeIgnored", func() {
		before := suite.selection.Ingredients()
		assert.False(suite.T(), suite.selection.ToggleIngredient(""))
		assert.Equal(suite.T(), before, suite.selection.Ingredients())
	})
}

func (suite *SelectionTestSuite) TestAddCustomIngredient() {
	suite.Run("TrimmedAndDeduplicated", func() {
		assert.True(suite.T(), suite.selection.AddCustomIngredient("  Kale  "))
		assert.False(suite.T(), suite.selection.AddCustomIngredient("Kale"))

		assert.Equal(suite.T(), []string{"Kale"}, suite.selection.Ingredients())
	})

	suite.Run("Blank_ShouldBeNoOp", func() {
		assert.False(suite.T(), suite.selection.AddCustomIngredient("   "))
		assert.Equal(suite.T(), []string{"Kale"}, suite.selection.Ingredients())
	})

	suite.Run("CustomCanBeToggledOff", func() {
		assert.False(suite.T(), suite.selection.ToggleIngredient("Kale"))
		assert.Empty(suite.T(), suite.selection.Ingredients())
	})
}

func (suite *SelectionTestSuite) TestToggleDietaryFilter() {
	selected, err := suite.selection.ToggleDietaryFilter("Vegan")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), selected)

	selected, err = suite.selection.ToggleDietaryFilter("Keto")
	require.NoError(suite.T(), err)
	assert.True(suite.T(), selected)

	selected, err = suite.selection.ToggleDietaryFilter("Vegan")
	require.NoError(suite.T(), err)
	assert.False(suite.T(), selected)

	_, err = suite.selection.ToggleDietaryFilter("Carnivore")
	assert.ErrorIs(suite.T(), err, ErrUnknownDietaryFilter)

	assert.Equal(suite.T(), []DietaryFilter{DietaryKeto}, suite.selection.DietaryFilters())
}

func (suite *SelectionTestSuite) TestClamping() {
	assert.Equal(suite.T(), MinSpiceLevel, suite.selection.SetSpiceLevel(-4))
	assert.Equal(suite.T(), MaxSpiceLevel, suite.selection.SetSpiceLevel(99))
	assert.Equal(suite.T(), 4, suite.selection.SetSpiceLevel(4))

	assert.Equal(suite.T(), MinPortions, suite.selection.SetPortions(0))
	assert.Equal(suite.T(), MaxPortions, suite.selection.SetPortions(11))
	assert.Equal(suite.T(), 6, suite.selection.SetPortions(6))
}

func (suite *SelectionTestSuite) TestSetCuisine() {
	require.NoError(suite.T(), suite.selection.SetCuisine("Thai"))
	assert.Equal(suite.T(), "Thai", suite.selection.Cuisine())

	require.NoError(suite.T(), suite.selection.SetCuisine("Random"))
	assert.Equal(suite.T(), "", suite.selection.Cuisine())

	assert.ErrorIs(suite.T(), suite.selection.SetCuisine("Martian"), ErrUnknownCuisine)
	assert.Equal(suite.T(), "", suite.selection.Cuisine())
}

func (suite *SelectionTestSuite) TestReset() {
	suite.selection.ToggleIngredient("Beef")
	suite.selection.AddCustomIngredient("Artichoke")
	_, _ = suite.selection.ToggleDietaryFilter("Paleo")
	suite.selection.SetSpiceLevel(5)
	suite.selection.SetPortions(8)
	_ = suite.selection.SetCuisine("French")

	suite.selection.Reset()

	assert.Equal(suite.T(), SelectionSnapshot{
		Ingredients:    []string{},
		DietaryFilters: []string{},
		SpiceLevel:     3,
		Portions:       2,
		Cuisine:        "",
	}, suite.selection.Snapshot())
}

func (suite *SelectionTestSuite) TestBuildRequest() {
	suite.Run("Empty_ShouldFail", func() {
		_, err := suite.selection.BuildRequest()
		assert.ErrorIs(suite.T(), err, ErrNoIngredients)
	})

	suite.Run("DefaultsCuisineToRandom", func() {
		suite.selection.ToggleIngredient("Tofu")
		_, _ = suite.selection.ToggleDietaryFilter("Vegan")
		suite.selection.SetPortions(4)

		req, err := suite.selection.BuildRequest()
		require.NoError(suite.T(), err)

		assert.Equal(suite.T(), GenerationRequest{
			Ingredients: []string{"Tofu"},
			Dietary:     []string{"Vegan"},
			SpiceLevel:  3,
			CookTime:    30,
			Difficulty:  "easy",
			Portions:    4,
			Cuisine:     "Random",
		}, req)
		assert.NoError(suite.T(), req.Validate())
	})

	suite.Run("RequestIsDetachedFromSelection", func() {
		req, err := suite.selection.BuildRequest()
		require.NoError(suite.T(), err)

		suite.selection.ToggleIngredient("Tofu")
		assert.Equal(suite.T(), []string{"Tofu"}, req.Ingredients)
	})
}

func TestSelectionTestSuite(t *testing.T) {
	suite.Run(t, new(SelectionTestSuite))
}

// An ingredient is selected iff it was toggled an odd number of times.
func TestToggleIngredient_ParityProperty(t *testing.T) {
	faker := gofakeit.New(time.Now().UnixNano())

	pool := make([]string, 0, 16)
	seen := map[string]bool{}
	for len(pool) < 12 {
		name := faker.Vegetable()
		if faker.Bool() {
			name = faker.Fruit()
		}
		if !seen[name] {
			seen[name] = true
			pool = append(pool, name)
		}
	}

	for round := 0; round < 50; round++ {
		selection := NewSelectionState()
		counts := map[string]int{}

		steps := faker.IntRange(0, 200)
		for i := 0; i < steps; i++ {
			item := pool[faker.IntRange(0, len(pool)-1)]
			selection.ToggleIngredient(item)
			counts[item]++
		}

		got := selection.Ingredients()
		unique := map[string]bool{}
		for _, item := range got {
			require.False(t, unique[item], "duplicate %q", item)
			unique[item] = true
		}
		for _, item := range pool {
			assert.Equal(t, counts[item]%2 == 1, selection.HasIngredient(item), "item %q toggled %d times", item, counts[item])
		}
	}
}
