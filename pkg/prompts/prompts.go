package prompts

// PersonaPromptTemplate casts the model as a single NPC. Arguments: name, traits,
// backstory, transcript, name.
const PersonaPromptTemplate = `You are now playing %s. Your traits: %s. Your background: %s.
Stay in character. Speak only as this character and never narrate for anyone else.
Based on the following conversation history:
%s
Your reply:
%s:`

// JudgePromptTemplate asks for a yes/no ruling on the player's goal. Arguments:
// transcript, goal.
const JudgePromptTemplate = `You are an expert judge. Based on the user's goal and their conversation record, decide whether the user has achieved the goal.
Conversation history:
%s
The user's goal: %s
Based on the conversation history above, has the user achieved the goal? Answer yes or no.
Your answer:`

// StorytellerUnavailable is shown when the oracle keeps failing for a turn.
const StorytellerUnavailable = "The storyteller could not respond; please try again."
