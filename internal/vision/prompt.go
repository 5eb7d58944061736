package vision

// identifyPrompt is the fixed instruction sent to the vision model together
// with the image. The JSON shape it documents is the structural contract
// enforced by parseIdentificationResult.
const identifyPrompt = "Identify the animal in this image. Provide the following information in a JSON format:\n" +
	"1. The primary animal species with its common name\n" +
	"2. The scientific name (if applicable)\n" +
	"3. A confidence score between 0-100\n" +
	"4. Up to 3 alternative possibilities with their confidence scores\n" +
	"5. 5 short interesting facts about the primary animal\n\n" +
	"Ensure the response is in valid JSON format with this structure:\n" +
	"{\n  \"primaryResult\": {\"name\": \"Common Name\", \"scientificName\": \"Scientific Name\", \"confidence\": 95},\n" +
	"  \"alternativeResults\": [\n    {\"name\": \"Alt Animal 1\", \"scientificName\": \"Alt Scientific 1\", \"confidence\": 15},\n" +
	"    {\"name\": \"Alt Animal 2\", \"scientificName\": \"Alt Scientific 2\", \"confidence\": 10},\n" +
	"    {\"name\": \"Alt Animal 3\", \"scientificName\": \"Alt Scientific 3\", \"confidence\": 5}\n  ],\n" +
	"  \"facts\": [\"Fact 1\", \"Fact 2\", \"Fact 3\", \"Fact 4\", \"Fact 5\"]\n}"
