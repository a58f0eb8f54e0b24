package recipes

// suggestPrompt asks for 3-5 recipes from a leftovers photo in a strict
// JSON shape so the reply can be decoded without post-processing beyond
// fence stripping.
const suggestPrompt = `Analyze this leftover food image and suggest 3-5 creative, sustainable recipes that use these ingredients.

For each recipe, provide:
- name: Creative recipe name
- description: Brief description (1-2 sentences)
- time: Cooking time in minutes
- servings: Number of servings
- difficulty: easy, medium, or hard
- calories: Estimated calories per serving
- sustainability: Percentage (how sustainable this recipe is)
- ingredients: List of ingredients
- instructions: Step-by-step cooking instructions

Return ONLY valid JSON in this exact format:
{
  "ingredients": ["ingredient1", "ingredient2"],
  "recipes": [
    {
      "name": "Recipe Name",
      "description": "Brief description",
      "time": 30,
      "servings": 4,
      "difficulty": "medium",
      "calories": 350,
      "sustainability": 85,
      "ingredients": ["ingredient1", "ingredient2"],
      "instructions": ["Step 1", "Step 2", "Step 3"]
    }
  ]
}`
