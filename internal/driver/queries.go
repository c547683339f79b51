package driver

const (
	SaveResolvedEntityQuery = `
		MERGE (n:Entity {uuid: $uuid})
		SET n.case_id = $case_id,
			n.name = $name,
			n.type = $type,
			n.role = $role,
			n.aliases = $aliases,
			n.mention_count = $mentions,
			n.confidence = $confidence
		RETURN n.uuid AS uuid
	`

	SaveLinkageQuery = `
		MATCH (source:Entity {uuid: $source_uuid})
		MATCH (target:Entity {uuid: $target_uuid})
		MERGE (source)-[e:LINKED_TO {uuid: $uuid}]->(target)
		SET e.case_id = $case_id,
			e.confidence = $confidence,
			e.algorithm = $algorithm,
			e.status = $status
		RETURN e.uuid AS uuid
	`

	DeleteCaseQuery = `
		MATCH (n:Entity {case_id: $case_id})
		DETACH DELETE n
	`

	CaseEntitiesQuery = `
		MATCH (n:Entity {case_id: $case_id})
		RETURN n.uuid AS uuid, n.name AS name, n.type AS type, n.confidence AS confidence
		ORDER BY n.confidence DESC
	`
)
