package pilot

// FoodSeekerScript greedily steps toward the food, skipping moves that would
// leave the grid or hit the body.
const FoodSeekerScript = `
local dirs = {
	{dx = 1, dy = 0},
	{dx = 0, dy = 1},
	{dx = -1, dy = 0},
	{dx = 0, dy = -1},
}

local function occupied(state, x, y)
	for _, c in ipairs(state.body) do
		if c.x == x and c.y == y then
			return true
		end
	end
	return false
end

function next_direction(state)
	local best, best_dist = nil, math.huge
	for _, d in ipairs(dirs) do
		local reverse = d.dx == -state.heading.dx and d.dy == -state.heading.dy
		local x, y = state.head.x + d.dx, state.head.y + d.dy
		local inside = x >= 0 and y >= 0 and x < state.grid_count and y < state.grid_count
		if not reverse and inside and not occupied(state, x, y) then
			local dist = distance({x = x, y = y}, state.food)
			if dist < best_dist then
				best, best_dist = d, dist
			end
		end
	end
	return best
end
`
